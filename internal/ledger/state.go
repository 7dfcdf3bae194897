package ledger

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/garantbot/miniapp-backend/internal/models"
)

// State — таблицы гарант-сервиса в памяти. Доступ к ним сериализуется
// Store, сам State о блокировках ничего не знает.
type State struct {
	Users              map[int64]*models.Account
	Deals              map[int64]*models.Deal
	PendingTopups      map[int64]*models.PendingTopup
	PendingWithdrawals map[int64]*models.PendingWithdrawal

	nextDealID int64
}

func newState() *State {
	return &State{
		Users:              make(map[int64]*models.Account),
		Deals:              make(map[int64]*models.Deal),
		PendingTopups:      make(map[int64]*models.PendingTopup),
		PendingWithdrawals: make(map[int64]*models.PendingWithdrawal),
		nextDealID:         1,
	}
}

// Account возвращает счёт пользователя, лениво создавая пустой при первом обращении.
func (s *State) Account(userID int64) *models.Account {
	acct, ok := s.Users[userID]
	if !ok {
		acct = models.NewAccount()
		s.Users[userID] = acct
	}
	return acct
}

// Deal возвращает сделку по id.
func (s *State) Deal(dealID int64) (*models.Deal, bool) {
	deal, ok := s.Deals[dealID]
	return deal, ok
}

// NextDealID выдаёт следующий последовательный идентификатор сделки.
func (s *State) NextDealID() int64 {
	id := s.nextDealID
	s.nextDealID++
	return id
}

// PutDeal сохраняет сделку в таблице.
func (s *State) PutDeal(deal *models.Deal) {
	s.Deals[deal.ID] = deal
}

// forceOperator гарантирует существование счёта оператора с фиксированным
// стартовым балансом. Отличающийся сохранённый баланс принудительно
// перезаписывается — защита от дрейфа и ручной правки файла данных.
func (s *State) forceOperator(operatorID int64, startBalance decimal.Decimal) {
	acct, ok := s.Users[operatorID]
	if !ok {
		s.Users[operatorID] = &models.Account{Balance: startBalance, Frozen: decimal.Zero}
		return
	}
	if !acct.Balance.Equal(startBalance) {
		acct.Balance = startBalance
	}
}

// export собирает сериализуемый снимок состояния. Целочисленные ключи
// превращаются в строки только здесь, на границе персистентности.
func (s *State) export() *models.SnapshotDocument {
	doc := models.NewSnapshotDocument()
	for id, acct := range s.Users {
		doc.Users[formatID(id)] = acct.Clone()
	}
	for id, deal := range s.Deals {
		doc.Deals[formatID(id)] = deal.Clone()
	}
	for id, topup := range s.PendingTopups {
		cp := *topup
		doc.PendingTopups[formatID(id)] = &cp
	}
	for id, withdrawal := range s.PendingWithdrawals {
		cp := *withdrawal
		doc.PendingWithdrawals[formatID(id)] = &cp
	}
	return doc
}

// importDocument замещает таблицы содержимым снимка. Счётчик идентификаторов
// сделок восстанавливается как максимум существующих id плюс один.
func (s *State) importDocument(doc *models.SnapshotDocument) error {
	fresh := newState()

	for key, acct := range doc.Users {
		id, err := parseID(key)
		if err != nil {
			return err
		}
		fresh.Users[id] = acct
	}
	for key, deal := range doc.Deals {
		id, err := parseID(key)
		if err != nil {
			return err
		}
		deal.ID = id
		fresh.Deals[id] = deal
		if id >= fresh.nextDealID {
			fresh.nextDealID = id + 1
		}
	}
	for key, topup := range doc.PendingTopups {
		id, err := parseID(key)
		if err != nil {
			return err
		}
		fresh.PendingTopups[id] = topup
	}
	for key, withdrawal := range doc.PendingWithdrawals {
		id, err := parseID(key)
		if err != nil {
			return err
		}
		fresh.PendingWithdrawals[id] = withdrawal
	}

	*s = *fresh
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(key string) (int64, error) {
	return strconv.ParseInt(key, 10, 64)
}
