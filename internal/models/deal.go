package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы сделок
const (
	DealTypeSell = "sell"
	DealTypeBuy  = "buy"
)

// Статусы сделок. Сделка движется только вперёд:
// waiting -> joined -> gift_sent -> completed, либо waiting -> cancelled.
const (
	DealStatusWaiting   = "waiting"
	DealStatusJoined    = "joined"
	DealStatusGiftSent  = "gift_sent"
	DealStatusCompleted = "completed"
	DealStatusCancelled = "cancelled"
)

// Действия над сделкой
const (
	DealActionJoin     = "join"
	DealActionCancel   = "cancel"
	DealActionSendGift = "send-gift"
	DealActionConfirm  = "confirm"
)

// Deal описывает гарант-сделку по передаче подарка.
// BuyerID заполнен тогда и только тогда, когда статус joined, gift_sent или completed.
// Sum не меняется после создания.
type Deal struct {
	ID          int64           `json:"id"`
	CreatorID   int64           `json:"creator_id"`
	BuyerID     *int64          `json:"buyer_id"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Sum         decimal.Decimal `json:"sum"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	JoinedAt    *time.Time      `json:"joined_at,omitempty"`
	GiftSentAt  *time.Time      `json:"gift_sent_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

// IsParticipant сообщает, участвует ли пользователь в сделке.
func (d *Deal) IsParticipant(userID int64) bool {
	if d.CreatorID == userID {
		return true
	}
	return d.BuyerID != nil && *d.BuyerID == userID
}

// EscrowHolder возвращает id стороны, чьи средства заморожены под сделку.
// Для sell это создатель (продавец), для buy — присоединившийся покупатель.
func (d *Deal) EscrowHolder() (int64, bool) {
	if d.Type == DealTypeSell {
		return d.CreatorID, true
	}
	if d.BuyerID != nil {
		return *d.BuyerID, true
	}
	return 0, false
}

// Clone возвращает независимую копию сделки.
func (d *Deal) Clone() *Deal {
	cp := *d
	if d.BuyerID != nil {
		v := *d.BuyerID
		cp.BuyerID = &v
	}
	cp.JoinedAt = cloneTime(d.JoinedAt)
	cp.GiftSentAt = cloneTime(d.GiftSentAt)
	cp.CompletedAt = cloneTime(d.CompletedAt)
	cp.CancelledAt = cloneTime(d.CancelledAt)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
