// Package blob keeps decoded result payloads resident behind opaque handles,
// much like object URLs in a browser.
package blob

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Handle references bytes held by a Store. The zero Handle is never issued.
type Handle string

const scheme = "blob:"

// Valid reports whether h looks like an issued handle.
func (h Handle) Valid() bool { return strings.HasPrefix(string(h), scheme) }

type entry struct {
	data []byte
	mime string
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[Handle]entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[Handle]entry)}
}

// Create copies data into the store and returns its handle.
func (s *Store) Create(data []byte, mime string) Handle {
	h := Handle(scheme + uuid.NewString())
	buf := append([]byte(nil), data...)
	s.mu.Lock()
	s.entries[h] = entry{data: buf, mime: mime}
	s.mu.Unlock()
	return h
}

// Open returns the bytes behind h. Callers must not modify them.
func (s *Store) Open(h Handle) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[h]
	return e.data, e.mime, ok
}

// Revoke releases the bytes behind h. Unknown handles are ignored.
func (s *Store) Revoke(h Handle) {
	if h == "" {
		return
	}
	s.mu.Lock()
	delete(s.entries, h)
	s.mu.Unlock()
}

// Len reports how many handles are resident.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
