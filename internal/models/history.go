package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы и статусы записей истории операций
const (
	HistoryTypeTopup    = "topup"
	HistoryTypeWithdraw = "withdraw"
	HistoryTypeDeal     = "deal"

	HistoryStatusPending   = "pending"
	HistoryStatusFrozen    = "frozen"
	HistoryStatusCompleted = "completed"
)

// HistoryEntry — запись истории операций пользователя. Отрицательная сумма
// означает списание или заморозку, положительная — зачисление.
type HistoryEntry struct {
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
}
