package service

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/garantbot/miniapp-backend/internal/ledger"
	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/models"
)

// SyncService выполняет доверенный полный импорт состояния от внешнего
// источника (основного бота). Бизнес-правила при импорте не проверяются,
// только структурный разбор; счёт оператора принудительно восстанавливается.
type SyncService struct {
	store *ledger.Store
}

// SyncResult — сводка импортированного состояния.
type SyncResult struct {
	UsersCount      int             `json:"users_count"`
	DealsCount      int             `json:"deals_count"`
	OperatorBalance decimal.Decimal `json:"admin_balance"`
}

// NewSyncService создаёт сервис синхронизации.
func NewSyncService(store *ledger.Store) *SyncService {
	return &SyncService{store: store}
}

// ReplaceState замещает все таблицы содержимым документа и сохраняет снимок.
func (s *SyncService) ReplaceState(doc *models.SnapshotDocument) (*SyncResult, error) {
	if doc == nil {
		doc = models.NewSnapshotDocument()
	}
	if err := s.store.Replace(doc); err != nil {
		return nil, err
	}

	result := &SyncResult{}
	s.store.View(func(st *ledger.State) {
		result.UsersCount = len(st.Users)
		result.DealsCount = len(st.Deals)
		if operator, ok := st.Users[s.store.OperatorID()]; ok {
			result.OperatorBalance = operator.Balance
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"users": result.UsersCount,
		"deals": result.DealsCount,
	}).Info("sync: данные синхронизированы")

	return result, nil
}
