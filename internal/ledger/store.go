package ledger

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/garantbot/miniapp-backend/internal/logger"
	"github.com/garantbot/miniapp-backend/internal/models"
	"github.com/garantbot/miniapp-backend/internal/pkg/apperror"
	"github.com/garantbot/miniapp-backend/internal/storage"
)

// Store владеет состоянием гарант-сервиса и сериализует его изменения.
//
// Модель конкурентности: все мутации выполняются строго по одной (txMu),
// включая последующую запись снимка на диск, поэтому снимки попадают в файл
// в порядке применения изменений. Читатели берут только mu.RLock и не
// блокируются дисковым вводом-выводом.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	state     *State
	snapshots *storage.SnapshotStorage

	operatorID    int64
	operatorStart decimal.Decimal
}

// NewStore создаёт хранилище с пустым состоянием.
func NewStore(snapshots *storage.SnapshotStorage, operatorID int64, operatorStart decimal.Decimal) *Store {
	return &Store{
		state:         newState(),
		snapshots:     snapshots,
		operatorID:    operatorID,
		operatorStart: operatorStart,
	}
}

// OperatorID возвращает идентификатор счёта оператора.
func (s *Store) OperatorID() int64 {
	return s.operatorID
}

// Load читает снимок с диска. Отсутствующий файл означает чистый старт с
// пустыми таблицами. В обоих случаях счёт оператора принудительно приводится
// к стартовому балансу и состояние сразу сохраняется.
func (s *Store) Load() error {
	doc, err := s.snapshots.Load()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось загрузить данные")
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	exported, err := s.resetTo(doc)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodePersistence, "снимок повреждён")
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"users":               len(exported.Users),
			"deals":               len(exported.Deals),
			"pending_topups":      len(exported.PendingTopups),
			"pending_withdrawals": len(exported.PendingWithdrawals),
		}).Info("ledger: данные загружены")
	}

	if err := s.snapshots.Save(exported); err != nil {
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось сохранить данные")
	}
	return nil
}

// Update применяет мутацию и сохраняет снимок перед подтверждением успеха.
//
// Контракт fn: все проверки бизнес-правил выполняются до первой записи в
// state, поэтому ошибка означает, что состояние не изменилось. Ошибка записи
// снимка возвращается вызывающему, но уже применённая мутация из памяти не
// откатывается (см. DESIGN.md).
func (s *Store) Update(fn func(*State) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	exported, err := s.apply(fn)
	if err != nil {
		return err
	}

	if err := s.snapshots.Save(exported); err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).Error("ledger: изменение применено, но снимок не сохранён")
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось сохранить данные")
	}
	return nil
}

// View выполняет fn на согласованном снимке состояния. Изменять состояние
// внутри fn нельзя; возвращаемые наружу значения нужно копировать.
func (s *Store) View(fn func(*State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Replace полностью замещает состояние содержимым документа — доверенный
// импорт для внешней синхронизации, без валидации бизнес-правил.
func (s *Store) Replace(doc *models.SnapshotDocument) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	exported, err := s.resetTo(doc)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "неверный формат данных синхронизации")
	}

	if err := s.snapshots.Save(exported); err != nil {
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось сохранить данные")
	}
	return nil
}

// apply выполняет fn под блокировкой записи и возвращает снимок нового
// состояния. Блокировка снимается через defer: паника внутри fn не должна
// оставить хранилище заблокированным навсегда.
func (s *Store) apply(fn func(*State) error) (*models.SnapshotDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return nil, err
	}
	return s.state.export(), nil
}

// resetTo замещает таблицы содержимым документа под блокировкой записи и
// возвращает снимок для сохранения. nil означает чистый старт с пустыми
// таблицами. Счёт оператора принудительно восстанавливается в обоих случаях.
func (s *Store) resetTo(doc *models.SnapshotDocument) (*models.SnapshotDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc != nil {
		if err := s.state.importDocument(doc); err != nil {
			return nil, err
		}
	}
	s.state.forceOperator(s.operatorID, s.operatorStart)
	return s.state.export(), nil
}
