package models

import (
	"github.com/shopspring/decimal"
)

// Account хранит баланс пользователя и замороженную под сделки часть.
// Инвариант: 0 <= Frozen <= Balance.
type Account struct {
	Balance decimal.Decimal `json:"balance"`
	Frozen  decimal.Decimal `json:"frozen"`
}

// NewAccount создаёт пустой счёт.
func NewAccount() *Account {
	return &Account{
		Balance: decimal.Zero,
		Frozen:  decimal.Zero,
	}
}

// Available возвращает доступную для трат часть баланса.
func (a *Account) Available() decimal.Decimal {
	return a.Balance.Sub(a.Frozen)
}

// Clone возвращает независимую копию счёта.
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}
