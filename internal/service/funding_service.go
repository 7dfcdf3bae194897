package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/models"
	"github.com/garantbot/miniapp-backend/internal/pkg/apperror"
)

// FundingService принимает заявки на пополнение и вывод средств.
// Заявки лишь регистрируются: балансы меняет только внешнее подтверждение
// оператором, которое находится за пределами сервиса.
type FundingService struct {
	store          *ledger.Store
	maxTopupAmount decimal.Decimal
}

// NewFundingService создаёт сервис заявок.
func NewFundingService(store *ledger.Store, maxTopupAmount decimal.Decimal) *FundingService {
	return &FundingService{
		store:          store,
		maxTopupAmount: maxTopupAmount,
	}
}

// CreateTopup регистрирует заявку на пополнение. Сумма должна лежать в
// (0, maxTopupAmount], на пользователя допускается одна активная заявка.
func (s *FundingService) CreateTopup(userID int64, amount decimal.Decimal, txHash string) error {
	if txHash == "" {
		return apperror.New(apperror.ErrCodeValidation, "не указан хэш транзакции")
	}
	if !amount.IsPositive() || amount.GreaterThan(s.maxTopupAmount) {
		return apperror.New(apperror.ErrCodeValidation, "некорректная сумма пополнения")
	}

	err := s.store.Update(func(st *ledger.State) error {
		if _, exists := st.PendingTopups[userID]; exists {
			return apperror.ErrDuplicateTopup
		}
		st.PendingTopups[userID] = &models.PendingTopup{
			Amount:    amount,
			TxHash:    txHash,
			Timestamp: time.Now(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"user":    userID,
		"amount":  amount,
		"tx_hash": txHash,
	}).Info("funding: заявка на пополнение создана")

	return nil
}

// CreateWithdrawal регистрирует заявку на вывод. Сумма должна быть
// положительной и не превышать доступный баланс; на пользователя допускается
// одна активная заявка. Средства под заявку не замораживаются — это
// поведение исходной системы, разрыв зафиксирован в DESIGN.md.
func (s *FundingService) CreateWithdrawal(userID int64, amount decimal.Decimal, address string) error {
	if address == "" {
		return apperror.New(apperror.ErrCodeValidation, "не указан адрес кошелька")
	}
	if !amount.IsPositive() {
		return apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}

	err := s.store.Update(func(st *ledger.State) error {
		// Неуспешная заявка не должна заводить счёт пользователю.
		acct, ok := st.Users[userID]
		if !ok || amount.GreaterThan(acct.Available()) {
			return apperror.ErrInsufficientFunds
		}
		if _, exists := st.PendingWithdrawals[userID]; exists {
			return apperror.ErrDuplicateWithdrawal
		}
		st.PendingWithdrawals[userID] = &models.PendingWithdrawal{
			Amount:    amount,
			Address:   address,
			Timestamp: time.Now(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"user":    userID,
		"amount":  amount,
		"address": address,
	}).Info("funding: заявка на вывод создана")

	return nil
}
