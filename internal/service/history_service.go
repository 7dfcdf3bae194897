package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/models"
)

// HistoryService собирает историю операций пользователя из активных заявок
// и его сделок. История не хранится отдельно, а выводится из текущего
// состояния таблиц.
type HistoryService struct {
	store          *ledger.Store
	commissionRate decimal.Decimal
}

// NewHistoryService создаёт сервис истории.
func NewHistoryService(store *ledger.Store, commissionRate decimal.Decimal) *HistoryService {
	return &HistoryService{
		store:          store,
		commissionRate: commissionRate,
	}
}

// GetUserHistory возвращает записи истории пользователя от новых к старым.
func (s *HistoryService) GetUserHistory(userID int64) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0)

	s.store.View(func(st *ledger.State) {
		if topup, ok := st.PendingTopups[userID]; ok {
			entries = append(entries, models.HistoryEntry{
				Type:        models.HistoryTypeTopup,
				Title:       "Заявка на пополнение",
				Description: fmt.Sprintf("TX: %s", topup.TxHash),
				Amount:      topup.Amount,
				Date:        topup.Timestamp,
				Status:      models.HistoryStatusPending,
			})
		}

		if withdrawal, ok := st.PendingWithdrawals[userID]; ok {
			entries = append(entries, models.HistoryEntry{
				Type:        models.HistoryTypeWithdraw,
				Title:       "Заявка на вывод",
				Description: fmt.Sprintf("Адрес: %s...", truncate(withdrawal.Address, 20)),
				Amount:      withdrawal.Amount.Neg(),
				Date:        withdrawal.Timestamp,
				Status:      models.HistoryStatusPending,
			})
		}

		for _, deal := range st.Deals {
			if entry, ok := s.dealEntry(deal, userID); ok {
				entries = append(entries, entry)
			}
		}
	})

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries
}

// dealEntry строит запись истории по сделке с точки зрения пользователя.
func (s *HistoryService) dealEntry(deal *models.Deal, userID int64) (models.HistoryEntry, bool) {
	isCreator := deal.CreatorID == userID
	isBuyer := deal.BuyerID != nil && *deal.BuyerID == userID

	switch deal.Status {
	case models.DealStatusCompleted:
		if deal.Type == models.DealTypeSell && isCreator && deal.CompletedAt != nil {
			// Продавец получил сумму за вычетом комиссии.
			proceeds := deal.Sum.Sub(deal.Sum.Mul(s.commissionRate))
			return models.HistoryEntry{
				Type:        models.HistoryTypeDeal,
				Title:       "Продажа подарка",
				Description: deal.Name,
				Amount:      proceeds,
				Date:        *deal.CompletedAt,
				Status:      models.HistoryStatusCompleted,
			}, true
		}
		if deal.Type == models.DealTypeBuy && isBuyer && deal.CompletedAt != nil {
			return models.HistoryEntry{
				Type:        models.HistoryTypeDeal,
				Title:       "Покупка подарка",
				Description: deal.Name,
				Amount:      deal.Sum.Neg(),
				Date:        *deal.CompletedAt,
				Status:      models.HistoryStatusCompleted,
			}, true
		}

	case models.DealStatusJoined, models.DealStatusGiftSent:
		// Активная сделка: показываем сторону, чьи средства заморожены.
		if deal.Type == models.DealTypeSell && isCreator {
			return models.HistoryEntry{
				Type:        models.HistoryTypeDeal,
				Title:       "Создание сделки",
				Description: deal.Name,
				Amount:      deal.Sum.Neg(),
				Date:        deal.CreatedAt,
				Status:      models.HistoryStatusFrozen,
			}, true
		}
		if deal.Type == models.DealTypeBuy && isBuyer && deal.JoinedAt != nil {
			return models.HistoryEntry{
				Type:        models.HistoryTypeDeal,
				Title:       "Участие в сделке",
				Description: deal.Name,
				Amount:      deal.Sum.Neg(),
				Date:        *deal.JoinedAt,
				Status:      models.HistoryStatusFrozen,
			}, true
		}
	}

	return models.HistoryEntry{}, false
}

// truncate обрезает строку до n символов.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
