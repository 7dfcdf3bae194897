package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/pkg/apperror"
)

func newFundingService(store *ledger.Store) *FundingService {
	return NewFundingService(store, decimal.NewFromInt(1000))
}

func TestFundingService_CreateTopup_Success(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)

	require.NoError(t, svc.CreateTopup(10, decimal.NewFromInt(500), "tx-hash-1"))

	store.View(func(st *ledger.State) {
		topup, ok := st.PendingTopups[10]
		require.True(t, ok)
		assert.True(t, topup.Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "tx-hash-1", topup.TxHash)
		assert.False(t, topup.Timestamp.IsZero())
	})
}

func TestFundingService_CreateTopup_AmountValidation(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)

	// Превышение лимита на одну заявку.
	err := svc.CreateTopup(10, decimal.NewFromInt(1500), "tx-hash-1")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	err = svc.CreateTopup(10, decimal.Zero, "tx-hash-1")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	err = svc.CreateTopup(10, decimal.NewFromInt(100), "")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestFundingService_CreateTopup_Duplicate(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)

	require.NoError(t, svc.CreateTopup(10, decimal.NewFromInt(100), "tx-hash-1"))

	err := svc.CreateTopup(10, decimal.NewFromInt(200), "tx-hash-2")
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeDuplicateRequest, apperror.CodeOf(err))

	// Первая заявка остаётся нетронутой.
	store.View(func(st *ledger.State) {
		assert.Equal(t, "tx-hash-1", st.PendingTopups[10].TxHash)
	})
}

func TestFundingService_CreateWithdrawal_Success(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)
	setBalance(t, store, 10, 300)

	require.NoError(t, svc.CreateWithdrawal(10, decimal.NewFromInt(200), "UQabcdef0123456789"))

	store.View(func(st *ledger.State) {
		withdrawal, ok := st.PendingWithdrawals[10]
		require.True(t, ok)
		assert.True(t, withdrawal.Amount.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, "UQabcdef0123456789", withdrawal.Address)
	})

	// Заявка на вывод средства не замораживает.
	acct := account(store, 10)
	assert.True(t, acct.Frozen.IsZero())
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(300)))
}

func TestFundingService_CreateWithdrawal_InsufficientFunds(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)
	setBalance(t, store, 10, 100)

	err := svc.CreateWithdrawal(10, decimal.NewFromInt(150), "UQabcdef")
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInsufficientFunds, apperror.CodeOf(err))
}

func TestFundingService_CreateWithdrawal_AvailableExcludesFrozen(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)

	require.NoError(t, store.Update(func(st *ledger.State) error {
		acct := st.Account(10)
		acct.Balance = decimal.NewFromInt(300)
		acct.Frozen = decimal.NewFromInt(250)
		return nil
	}))

	err := svc.CreateWithdrawal(10, decimal.NewFromInt(100), "UQabcdef")
	assert.Equal(t, apperror.ErrCodeInsufficientFunds, apperror.CodeOf(err))

	require.NoError(t, svc.CreateWithdrawal(10, decimal.NewFromInt(50), "UQabcdef"))
}

func TestFundingService_CreateWithdrawal_Duplicate(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)
	setBalance(t, store, 10, 300)

	require.NoError(t, svc.CreateWithdrawal(10, decimal.NewFromInt(50), "UQabcdef"))

	err := svc.CreateWithdrawal(10, decimal.NewFromInt(50), "UQabcdef")
	assert.Equal(t, apperror.ErrCodeDuplicateRequest, apperror.CodeOf(err))
}

func TestFundingService_FailedWithdrawalDoesNotCreateAccount(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)

	err := svc.CreateWithdrawal(30, decimal.NewFromInt(10), "UQabcdef")
	assert.Equal(t, apperror.ErrCodeInsufficientFunds, apperror.CodeOf(err))

	store.View(func(st *ledger.State) {
		_, ok := st.Users[30]
		assert.False(t, ok)
	})
}

func TestFundingService_CreateWithdrawal_Validation(t *testing.T) {
	store := newTestStore(t)
	svc := newFundingService(store)
	setBalance(t, store, 10, 300)

	err := svc.CreateWithdrawal(10, decimal.NewFromInt(50), "")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	err = svc.CreateWithdrawal(10, decimal.NewFromInt(-5), "UQabcdef")
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}
