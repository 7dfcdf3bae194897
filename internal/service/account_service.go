package service

import (
	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/models"
)

// AccountService отдаёт состояние счёта пользователя.
type AccountService struct {
	store *ledger.Store
}

// NewAccountService создаёт сервис счетов.
func NewAccountService(store *ledger.Store) *AccountService {
	return &AccountService{store: store}
}

// GetAccount возвращает копию счёта, лениво создавая пустой для нового
// пользователя. Создание счёта — мутация, поэтому известные счета читаются
// без записи, а новые проходят через Update и сохраняются в снимке.
func (s *AccountService) GetAccount(userID int64) (*models.Account, error) {
	var acct *models.Account
	s.store.View(func(st *ledger.State) {
		if existing, ok := st.Users[userID]; ok {
			acct = existing.Clone()
		}
	})
	if acct != nil {
		return acct, nil
	}

	err := s.store.Update(func(st *ledger.State) error {
		acct = st.Account(userID).Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}
