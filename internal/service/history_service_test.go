package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/models"
)

func newHistoryService(store *ledger.Store) *HistoryService {
	return NewHistoryService(store, decimal.NewFromFloat(0.05))
}

func TestHistoryService_EmptyHistory(t *testing.T) {
	store := newTestStore(t)
	svc := newHistoryService(store)

	entries := svc.GetUserHistory(10)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestHistoryService_PendingRequests(t *testing.T) {
	store := newTestStore(t)
	svc := newHistoryService(store)
	setBalance(t, store, 10, 500)

	funding := newFundingService(store)
	require.NoError(t, funding.CreateTopup(10, decimal.NewFromInt(100), "tx-hash-42"))
	require.NoError(t, funding.CreateWithdrawal(10, decimal.NewFromInt(50), "UQveryLongWalletAddress0123456789"))

	entries := svc.GetUserHistory(10)
	require.Len(t, entries, 2)

	var topup, withdrawal *models.HistoryEntry
	for i := range entries {
		switch entries[i].Type {
		case models.HistoryTypeTopup:
			topup = &entries[i]
		case models.HistoryTypeWithdraw:
			withdrawal = &entries[i]
		}
	}

	require.NotNil(t, topup)
	assert.True(t, topup.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, models.HistoryStatusPending, topup.Status)
	assert.Contains(t, topup.Description, "tx-hash-42")

	require.NotNil(t, withdrawal)
	assert.True(t, withdrawal.Amount.Equal(decimal.NewFromInt(-50)))
	assert.Equal(t, models.HistoryStatusPending, withdrawal.Status)
	// Адрес обрезается до 20 символов.
	assert.Contains(t, withdrawal.Description, "UQveryLongWalletAddr")
	assert.NotContains(t, withdrawal.Description, "0123456789")
}

func TestHistoryService_CompletedSellDeal(t *testing.T) {
	store := newTestStore(t)
	deals := newDealService(store)
	svc := newHistoryService(store)
	setBalance(t, store, 10, 200)
	setBalance(t, store, 20, 200)

	dealID, err := deals.Create(10, models.DealTypeSell, "редкий подарок", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, deals.ApplyAction(20, dealID, models.DealActionJoin))
	require.NoError(t, deals.ApplyAction(10, dealID, models.DealActionSendGift))
	require.NoError(t, deals.ApplyAction(20, dealID, models.DealActionConfirm))

	// Продавец видит выручку за вычетом комиссии.
	sellerEntries := svc.GetUserHistory(10)
	require.Len(t, sellerEntries, 1)
	assert.Equal(t, models.HistoryTypeDeal, sellerEntries[0].Type)
	assert.Equal(t, models.HistoryStatusCompleted, sellerEntries[0].Status)
	assert.True(t, sellerEntries[0].Amount.Equal(decimal.NewFromInt(95)), "amount: %s", sellerEntries[0].Amount)

	// Покупатель завершённой sell сделки записи не получает.
	assert.Empty(t, svc.GetUserHistory(20))
}

func TestHistoryService_ActiveDealsShownAsFrozen(t *testing.T) {
	store := newTestStore(t)
	deals := newDealService(store)
	svc := newHistoryService(store)
	setBalance(t, store, 10, 200)
	setBalance(t, store, 20, 200)

	dealID, err := deals.Create(10, models.DealTypeSell, "подарок", decimal.NewFromInt(100))
	require.NoError(t, err)

	// Ожидающая сделка в истории не показывается.
	assert.Empty(t, svc.GetUserHistory(10))

	require.NoError(t, deals.ApplyAction(20, dealID, models.DealActionJoin))

	sellerEntries := svc.GetUserHistory(10)
	require.Len(t, sellerEntries, 1)
	assert.Equal(t, models.HistoryStatusFrozen, sellerEntries[0].Status)
	assert.True(t, sellerEntries[0].Amount.Equal(decimal.NewFromInt(-100)))
}

func TestHistoryService_BuyDealForJoiner(t *testing.T) {
	store := newTestStore(t)
	deals := newDealService(store)
	svc := newHistoryService(store)
	setBalance(t, store, 20, 200)

	dealID, err := deals.Create(10, models.DealTypeBuy, "подарок", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, deals.ApplyAction(20, dealID, models.DealActionJoin))

	joinerEntries := svc.GetUserHistory(20)
	require.Len(t, joinerEntries, 1)
	assert.Equal(t, models.HistoryStatusFrozen, joinerEntries[0].Status)
	assert.True(t, joinerEntries[0].Amount.Equal(decimal.NewFromInt(-100)))

	require.NoError(t, deals.ApplyAction(20, dealID, models.DealActionSendGift))
	require.NoError(t, deals.ApplyAction(10, dealID, models.DealActionConfirm))

	joinerEntries = svc.GetUserHistory(20)
	require.Len(t, joinerEntries, 1)
	assert.Equal(t, models.HistoryStatusCompleted, joinerEntries[0].Status)
	assert.True(t, joinerEntries[0].Amount.Equal(decimal.NewFromInt(-100)))
}

func TestHistoryService_SortedNewestFirst(t *testing.T) {
	store := newTestStore(t)
	svc := newHistoryService(store)
	setBalance(t, store, 10, 500)

	funding := newFundingService(store)
	require.NoError(t, funding.CreateTopup(10, decimal.NewFromInt(100), "tx-1"))
	require.NoError(t, funding.CreateWithdrawal(10, decimal.NewFromInt(50), "UQabcdef"))

	entries := svc.GetUserHistory(10)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Date.Before(entries[1].Date))
}
