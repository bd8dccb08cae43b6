package storage

import "time"

// Storage is a keyed object store that tracks which entries changed since they were last
// persisted.
type Storage[K comparable, V any] interface {
	Set(key K, value V)
	SetClean(key K, value V)
	Get(key K) (V, bool)
	Delete(key K) bool
	GetAll() map[K]V
	GetAllValues() []V
	GetDirty() map[K]V
	ClearDirty(keys []K)
	DirtySnapshot() (map[K]V, map[K]uint64)
	ClearDirtyIfUnchanged(versions map[K]uint64) int
	EvictOlderThan(cutoff time.Time) []K
	ForEach(fn func(key K, value V) bool)
	Count() int
}
