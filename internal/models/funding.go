package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingTopup — заявка на пополнение баланса, ожидающая подтверждения оператором.
// На пользователя допускается не более одной активной заявки.
type PendingTopup struct {
	Amount    decimal.Decimal `json:"amount"`
	TxHash    string          `json:"tx_hash"`
	Timestamp time.Time       `json:"timestamp"`
}

// PendingWithdrawal — заявка на вывод средств, ожидающая подтверждения оператором.
// Средства под заявку не замораживаются (поведение исходной системы, см. DESIGN.md).
type PendingWithdrawal struct {
	Amount    decimal.Decimal `json:"amount"`
	Address   string          `json:"address"`
	Timestamp time.Time       `json:"timestamp"`
}
