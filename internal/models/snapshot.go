package models

// SnapshotDocument — сериализуемый снимок всего состояния гарант-сервиса.
// Ключи всех таблиц — строковые представления идентификаторов: целочисленные
// id живут только в памяти, конвертация происходит на границе персистентности.
type SnapshotDocument struct {
	Users              map[string]*Account           `json:"users"`
	Deals              map[string]*Deal              `json:"deals"`
	PendingTopups      map[string]*PendingTopup      `json:"pending_topups"`
	PendingWithdrawals map[string]*PendingWithdrawal `json:"pending_withdrawals"`
}

// NewSnapshotDocument возвращает документ с инициализированными таблицами.
func NewSnapshotDocument() *SnapshotDocument {
	return &SnapshotDocument{
		Users:              make(map[string]*Account),
		Deals:              make(map[string]*Deal),
		PendingTopups:      make(map[string]*PendingTopup),
		PendingWithdrawals: make(map[string]*PendingWithdrawal),
	}
}
