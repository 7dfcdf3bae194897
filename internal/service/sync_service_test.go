package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/models"
	"github.com/garantbot/miniapp-backend/internal/pkg/apperror"
)

func TestSyncService_ReplaceState(t *testing.T) {
	store := newTestStore(t)
	svc := NewSyncService(store)

	// В хранилище уже есть данные, которые импорт должен вытеснить.
	setBalance(t, store, 99, 1000)

	doc := models.NewSnapshotDocument()
	doc.Users["10"] = &models.Account{Balance: decimal.NewFromInt(500), Frozen: decimal.Zero}
	doc.Users["20"] = &models.Account{Balance: decimal.NewFromInt(300), Frozen: decimal.NewFromInt(100)}
	doc.Deals["5"] = &models.Deal{
		CreatorID: 10,
		Type:      models.DealTypeSell,
		Name:      "подарок",
		Sum:       decimal.NewFromInt(100),
		Status:    models.DealStatusWaiting,
	}

	result, err := svc.ReplaceState(doc)
	require.NoError(t, err)

	// Оператор добавляется принудительно поверх импортированных таблиц.
	assert.Equal(t, 3, result.UsersCount)
	assert.Equal(t, 1, result.DealsCount)
	assert.True(t, result.OperatorBalance.Equal(decimal.NewFromInt(7000)))

	store.View(func(st *ledger.State) {
		_, ok := st.Users[99]
		assert.False(t, ok, "старые данные должны быть вытеснены")
		assert.True(t, st.Users[20].Frozen.Equal(decimal.NewFromInt(100)))

		deal, ok := st.Deal(5)
		require.True(t, ok)
		assert.Equal(t, int64(5), deal.ID)
	})
}

func TestSyncService_ReplaceState_NilDocument(t *testing.T) {
	store := newTestStore(t)
	svc := NewSyncService(store)
	setBalance(t, store, 10, 100)

	result, err := svc.ReplaceState(nil)
	require.NoError(t, err)

	// Остаётся только счёт оператора.
	assert.Equal(t, 1, result.UsersCount)
	assert.Equal(t, 0, result.DealsCount)
}

func TestSyncService_ReplaceState_BadKeys(t *testing.T) {
	store := newTestStore(t)
	svc := NewSyncService(store)
	setBalance(t, store, 10, 100)

	doc := models.NewSnapshotDocument()
	doc.Users["oops"] = &models.Account{}

	_, err := svc.ReplaceState(doc)
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	// Неудачный импорт не трогает текущее состояние.
	store.View(func(st *ledger.State) {
		assert.True(t, st.Users[10].Balance.Equal(decimal.NewFromInt(100)))
	})
}
