// Package storage provides the durable keyed store the engine persists
// games, balances, and configuration into, with LevelDB and Redis
// backends behind one small interface.
package storage

// DB is the generic key-value store interface. Implementations return
// core.ErrNotFound for missing keys so callers can errors.Is against it.
type DB interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	NewIterator(prefix []byte) Iterator
	Close() error
}

// Iterator walks key-value pairs matching a prefix.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}
