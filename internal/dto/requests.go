package dto

import (
	"github.com/shopspring/decimal"
)

// UserRequest идентифицирует пользователя Mini App. Telegram WebApp передаёт
// user_id в теле каждого запроса.
type UserRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// CreateTopupRequest — заявка на пополнение баланса.
type CreateTopupRequest struct {
	UserID int64           `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	TxHash string          `json:"tx_hash" binding:"required"`
}

// CreateWithdrawalRequest — заявка на вывод средств.
type CreateWithdrawalRequest struct {
	UserID  int64           `json:"user_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Address string          `json:"address" binding:"required"`
}

// CreateDealRequest — создание сделки.
type CreateDealRequest struct {
	UserID int64           `json:"user_id" binding:"required"`
	Type   string          `json:"type" binding:"required"`
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// DealActionRequest — действие над существующей сделкой.
type DealActionRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	DealID int64  `json:"deal_id" binding:"required"`
	Action string `json:"action" binding:"required"`
}
