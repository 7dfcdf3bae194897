package dto

import (
	"github.com/shopspring/decimal"

	"github.com/garantbot/miniapp-backend/internal/models"
)

// APIResponse — единый конверт ответов Mini App API.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BalanceData — состояние счёта пользователя.
type BalanceData struct {
	Balance        decimal.Decimal `json:"balance"`
	Frozen         decimal.Decimal `json:"frozen"`
	Available      decimal.Decimal `json:"available"`
	DepositAddress string          `json:"deposit_address,omitempty"`
}

// DealView — сделка в ответе API вместе с deep-link для шаринга.
type DealView struct {
	*models.Deal
	Link string `json:"link"`
}

// DealListData — список сделок пользователя.
type DealListData struct {
	Deals []DealView `json:"deals"`
}

// CreateDealData — идентификатор созданной сделки.
type CreateDealData struct {
	DealID int64 `json:"deal_id"`
}

// HistoryData — история операций пользователя.
type HistoryData struct {
	History []models.HistoryEntry `json:"history"`
}
