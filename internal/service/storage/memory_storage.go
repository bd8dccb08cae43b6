package storage

import (
	"maps"
	"sync"
	"time"
)

// MemoryStorage is a mutex guarded in-memory Storage.
type MemoryStorage[K comparable, V any] struct {
	data       map[K]V
	mutex      sync.RWMutex
	dirty      map[K]struct{}
	lastUpdate map[K]time.Time
	version    map[K]uint64
	seq        uint64
	now        func() time.Time
}

func NewMemoryStorage[K comparable, V any]() *MemoryStorage[K, V] {
	return NewMemoryStorageWithClock[K, V](time.Now)
}

// NewMemoryStorageWithClock creates a storage that stamps updates with now.
func NewMemoryStorageWithClock[K comparable, V any](now func() time.Time) *MemoryStorage[K, V] {
	return &MemoryStorage[K, V]{
		data:       make(map[K]V),
		dirty:      make(map[K]struct{}),
		lastUpdate: make(map[K]time.Time),
		version:    make(map[K]uint64),
		now:        now,
	}
}

// Set adds or replaces an entry and marks it dirty.
func (s *MemoryStorage[K, V]) Set(key K, value V) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	s.dirty[key] = struct{}{}
	s.touch(key)
}

// SetClean adds or replaces an entry that is already persisted, e.g. one loaded from a cache.
func (s *MemoryStorage[K, V]) SetClean(key K, value V) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	delete(s.dirty, key)
	s.touch(key)
}

func (s *MemoryStorage[K, V]) touch(key K) {
	s.seq++
	s.version[key] = s.seq
	s.lastUpdate[key] = s.now()
}

func (s *MemoryStorage[K, V]) Get(key K) (V, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	return value, exists
}

// Delete removes an entry. It reports false if the key was unknown.
func (s *MemoryStorage[K, V]) Delete(key K) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[key]; !exists {
		return false
	}

	delete(s.data, key)
	delete(s.dirty, key)
	delete(s.lastUpdate, key)
	delete(s.version, key)
	return true
}

func (s *MemoryStorage[K, V]) GetAll() map[K]V {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return maps.Clone(s.data)
}

func (s *MemoryStorage[K, V]) GetAllValues() []V {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]V, 0, len(s.data))
	for _, v := range s.data {
		result = append(result, v)
	}
	return result
}

// GetDirty returns the dirty entries without clearing their flags.
func (s *MemoryStorage[K, V]) GetDirty() map[K]V {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make(map[K]V, len(s.dirty))
	for k := range s.dirty {
		if v, exists := s.data[k]; exists {
			result[k] = v
		}
	}
	return result
}

// ClearDirty clears the dirty flags of the given keys.
func (s *MemoryStorage[K, V]) ClearDirty(keys []K) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, k := range keys {
		delete(s.dirty, k)
	}
}

// DirtySnapshot returns the dirty entries together with the version each one was read at.
func (s *MemoryStorage[K, V]) DirtySnapshot() (map[K]V, map[K]uint64) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	values := make(map[K]V, len(s.dirty))
	versions := make(map[K]uint64, len(s.dirty))
	for k := range s.dirty {
		if v, exists := s.data[k]; exists {
			values[k] = v
			versions[k] = s.version[k]
		}
	}
	return values, versions
}

// ClearDirtyIfUnchanged clears the dirty flag of every key still at the given version. Keys
// written after the snapshot stay dirty. It returns the number of flags cleared.
func (s *MemoryStorage[K, V]) ClearDirtyIfUnchanged(versions map[K]uint64) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cleared := 0
	for k, v := range versions {
		if _, dirty := s.dirty[k]; !dirty || s.version[k] != v {
			continue
		}
		delete(s.dirty, k)
		cleared++
	}
	return cleared
}

// EvictOlderThan drops clean entries last updated before cutoff and returns their keys.
// Dirty entries are kept until they have been persisted.
func (s *MemoryStorage[K, V]) EvictOlderThan(cutoff time.Time) []K {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var evicted []K
	for k, ts := range s.lastUpdate {
		if _, dirty := s.dirty[k]; dirty || !ts.Before(cutoff) {
			continue
		}
		delete(s.data, k)
		delete(s.lastUpdate, k)
		delete(s.version, k)
		evicted = append(evicted, k)
	}
	return evicted
}

// ForEach calls fn for every entry until it returns false. fn runs on a snapshot, without the
// lock held.
func (s *MemoryStorage[K, V]) ForEach(fn func(key K, value V) bool) {
	s.mutex.RLock()
	items := maps.Clone(s.data)
	s.mutex.RUnlock()

	for k, v := range items {
		if !fn(k, v) {
			break
		}
	}
}

func (s *MemoryStorage[K, V]) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
