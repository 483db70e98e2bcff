package cookies

import (
	"maps"
	"slices"
	"sync"
	"time"
)

type entry struct {
	value   string
	expires time.Time
}

// MemoryStore is an in-process cookie jar that honors expiry against its clock.
type MemoryStore struct {
	mu      sync.RWMutex
	clock   func() time.Time
	entries map[string]entry
}

// NewMemoryStore creates an empty jar. A nil clock means time.Now.
func NewMemoryStore(clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{clock: clock, entries: make(map[string]entry)}
}

func (s *MemoryStore) Set(name, value string, days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = entry{value: value, expires: expiry(s.clock(), days)}
}

func (s *MemoryStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	if !ok || !e.expires.After(s.clock()) {
		return "", false
	}
	return e.value, true
}

func (s *MemoryStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, name)
}

// Put stores a raw value with an explicit expiry, bypassing the days computation.
// Used to seed a jar from a captured Cookie header.
func (s *MemoryStore) Put(name, value string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = entry{value: value, expires: expires}
}

// Expires returns the expiry of a stored cookie.
func (s *MemoryStore) Expires(name string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	return e.expires, ok
}

// Names lists the names of live cookies in sorted order.
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.clock()
	live := make(map[string]struct{}, len(s.entries))
	for name, e := range s.entries {
		if e.expires.After(now) {
			live[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(live))
}

var _ Store = (*MemoryStore)(nil)
