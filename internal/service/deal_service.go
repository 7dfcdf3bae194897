package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/models"
	"github.com/garantbot/miniapp-backend/internal/pkg/apperror"
)

// DealService реализует машину состояний гарант-сделки и связанные с
// переходами движения средств. Все проверки выполняются до первой мутации:
// неуспешный переход не меняет состояние.
type DealService struct {
	store          *ledger.Store
	commissionRate decimal.Decimal
}

// NewDealService создаёт сервис сделок.
func NewDealService(store *ledger.Store, commissionRate decimal.Decimal) *DealService {
	return &DealService{
		store:          store,
		commissionRate: commissionRate,
	}
}

// Create создаёт сделку. Для сделки типа sell у создателя немедленно
// замораживается сумма сделки, поэтому требуется доступный баланс не меньше неё.
func (s *DealService) Create(userID int64, dealType, name string, amount decimal.Decimal) (int64, error) {
	if dealType != models.DealTypeSell && dealType != models.DealTypeBuy {
		return 0, apperror.New(apperror.ErrCodeValidation, "неизвестный тип сделки")
	}
	if name == "" {
		return 0, apperror.New(apperror.ErrCodeValidation, "название сделки не может быть пустым")
	}
	if !amount.IsPositive() {
		return 0, apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}

	var dealID int64
	err := s.store.Update(func(st *ledger.State) error {
		// Проверки до первой мутации: неуспешное создание не заводит счёт.
		if dealType == models.DealTypeSell {
			creator, ok := st.Users[userID]
			if !ok || creator.Available().LessThan(amount) {
				return apperror.New(apperror.ErrCodeInsufficientFunds, "недостаточно средств для создания сделки")
			}
		}

		dealID = st.NextDealID()
		st.PutDeal(&models.Deal{
			ID:        dealID,
			CreatorID: userID,
			Type:      dealType,
			Name:      name,
			Sum:       amount,
			Status:    models.DealStatusWaiting,
			CreatedAt: time.Now(),
		})

		if dealType == models.DealTypeSell {
			creator := st.Account(userID)
			creator.Frozen = creator.Frozen.Add(amount)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Log.WithFields(logrus.Fields{
		"deal_id": dealID,
		"type":    dealType,
		"sum":     amount,
		"creator": userID,
	}).Info("deal: сделка создана")

	return dealID, nil
}

// ApplyAction выполняет действие пользователя над сделкой.
func (s *DealService) ApplyAction(userID, dealID int64, action string) error {
	var err error
	switch action {
	case models.DealActionJoin:
		err = s.join(userID, dealID)
	case models.DealActionCancel:
		err = s.cancel(userID, dealID)
	case models.DealActionSendGift:
		err = s.sendGift(userID, dealID)
	case models.DealActionConfirm:
		err = s.confirm(userID, dealID)
	default:
		return apperror.New(apperror.ErrCodeValidation, "неизвестное действие")
	}
	if err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"deal_id": dealID,
		"action":  action,
		"user":    userID,
	}).Info("deal: действие выполнено")

	return nil
}

// join присоединяет пользователя к ожидающей сделке второй стороной.
// Для сделки типа buy замораживаются средства присоединившегося покупателя.
func (s *DealService) join(userID, dealID int64) error {
	return s.store.Update(func(st *ledger.State) error {
		deal, ok := st.Deal(dealID)
		if !ok {
			return apperror.ErrDealNotFound
		}
		if deal.Status != models.DealStatusWaiting {
			return apperror.New(apperror.ErrCodeInvalidTransition, "невозможно присоединиться к сделке")
		}
		if deal.CreatorID == userID {
			return apperror.New(apperror.ErrCodeInvalidTransition, "нельзя присоединиться к собственной сделке")
		}

		buyer, ok := st.Users[userID]
		if !ok || buyer.Available().LessThan(deal.Sum) {
			return apperror.ErrInsufficientFunds
		}

		now := time.Now()
		deal.BuyerID = &userID
		deal.Status = models.DealStatusJoined
		deal.JoinedAt = &now

		if deal.Type == models.DealTypeBuy {
			buyer.Frozen = buyer.Frozen.Add(deal.Sum)
		}
		return nil
	})
}

// cancel отменяет ожидающую сделку. Доступно только создателю; для sell
// размораживаются его средства.
func (s *DealService) cancel(userID, dealID int64) error {
	return s.store.Update(func(st *ledger.State) error {
		deal, ok := st.Deal(dealID)
		if !ok {
			return apperror.ErrDealNotFound
		}
		if deal.CreatorID != userID {
			return apperror.New(apperror.ErrCodeUnauthorized, "отменить сделку может только её создатель")
		}
		if deal.Status != models.DealStatusWaiting {
			return apperror.New(apperror.ErrCodeInvalidTransition, "невозможно отменить сделку")
		}

		now := time.Now()
		deal.Status = models.DealStatusCancelled
		deal.CancelledAt = &now

		if deal.Type == models.DealTypeSell {
			creator := st.Account(userID)
			creator.Frozen = creator.Frozen.Sub(deal.Sum)
		}
		return nil
	})
}

// sendGift отмечает передачу подарка. Передаёт та сторона, чьи средства
// заморожены под сделку: продавец для sell, покупатель для buy.
func (s *DealService) sendGift(userID, dealID int64) error {
	return s.store.Update(func(st *ledger.State) error {
		deal, ok := st.Deal(dealID)
		if !ok {
			return apperror.ErrDealNotFound
		}
		if deal.Status != models.DealStatusJoined {
			return apperror.New(apperror.ErrCodeInvalidTransition, "невозможно передать подарок")
		}

		holder, ok := deal.EscrowHolder()
		if !ok || holder != userID {
			return apperror.New(apperror.ErrCodeUnauthorized, "вы не можете передать подарок в этой сделке")
		}

		now := time.Now()
		deal.Status = models.DealStatusGiftSent
		deal.GiftSentAt = &now
		return nil
	})
}

// confirm подтверждает получение и проводит расчёт. Подтверждает сторона,
// принимающая подарок: покупатель для sell, создатель для buy.
//
// Расчёт: комиссия = sum * commissionRate. Замороженные средства покупателя
// освобождаются без встречного зачисления — ценность он уже получил подарком.
// Продавец получает sum минус комиссию, комиссия уходит оператору. Сумма всех
// балансов при этом не меняется, уменьшается только общий frozen.
func (s *DealService) confirm(userID, dealID int64) error {
	return s.store.Update(func(st *ledger.State) error {
		deal, ok := st.Deal(dealID)
		if !ok {
			return apperror.ErrDealNotFound
		}
		if deal.Status != models.DealStatusGiftSent {
			return apperror.New(apperror.ErrCodeInvalidTransition, "невозможно подтвердить получение")
		}

		// BuyerID обязан быть заполнен начиная со статуса joined, но документ
		// внешней синхронизации может его не содержать.
		var canConfirm bool
		switch deal.Type {
		case models.DealTypeSell:
			canConfirm = deal.BuyerID != nil && *deal.BuyerID == userID
		case models.DealTypeBuy:
			canConfirm = deal.BuyerID != nil && deal.CreatorID == userID
		}
		if !canConfirm {
			return apperror.New(apperror.ErrCodeUnauthorized, "вы не можете подтвердить получение в этой сделке")
		}

		now := time.Now()
		deal.Status = models.DealStatusCompleted
		deal.CompletedAt = &now

		commission := deal.Sum.Mul(s.commissionRate)
		seller := st.Account(deal.CreatorID)
		buyer := st.Account(*deal.BuyerID)
		operator := st.Account(s.store.OperatorID())

		buyer.Frozen = buyer.Frozen.Sub(deal.Sum)
		if deal.Type == models.DealTypeSell {
			// У продавца сделки sell сумма была заморожена с момента создания.
			seller.Frozen = seller.Frozen.Sub(deal.Sum)
		}
		seller.Balance = seller.Balance.Add(deal.Sum.Sub(commission))
		operator.Balance = operator.Balance.Add(commission)
		return nil
	})
}

// ListUserDeals возвращает копии сделок, где пользователь создатель или
// покупатель, упорядоченные от новых к старым.
func (s *DealService) ListUserDeals(userID int64) []*models.Deal {
	deals := make([]*models.Deal, 0)
	s.store.View(func(st *ledger.State) {
		for _, deal := range st.Deals {
			if deal.IsParticipant(userID) {
				deals = append(deals, deal.Clone())
			}
		}
	})

	sort.Slice(deals, func(i, j int) bool {
		return deals[i].CreatedAt.After(deals[j].CreatedAt)
	})
	return deals
}

// GetDeal возвращает копию сделки по id.
func (s *DealService) GetDeal(dealID int64) (*models.Deal, error) {
	var deal *models.Deal
	s.store.View(func(st *ledger.State) {
		if d, ok := st.Deal(dealID); ok {
			deal = d.Clone()
		}
	})
	if deal == nil {
		return nil, apperror.ErrDealNotFound
	}
	return deal, nil
}
