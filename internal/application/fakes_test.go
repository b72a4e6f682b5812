package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/stretchr/testify/mock"
)

type memoryHistoryStore struct {
	mu      sync.Mutex
	entries map[string][]domain.HistoryEntry
	saves   int
	saveErr error
}

func newMemoryHistoryStore() *memoryHistoryStore {
	return &memoryHistoryStore{entries: map[string][]domain.HistoryEntry{}}
}

func (s *memoryHistoryStore) Load(_ context.Context, owner string) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryEntry(nil), s.entries[owner]...), nil
}

func (s *memoryHistoryStore) Save(_ context.Context, owner string, entries []domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.entries[owner] = append([]domain.HistoryEntry(nil), entries...)
	return nil
}

func (s *memoryHistoryStore) stored(owner string) []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryEntry(nil), s.entries[owner]...)
}

type memoryTableWriter struct {
	path   string
	header []string
	rows   [][]string
	err    error
}

func (w *memoryTableWriter) WriteTable(_ context.Context, path string, header []string, rows [][]string) error {
	if w.err != nil {
		return w.err
	}
	w.path, w.header, w.rows = path, header, rows
	return nil
}

type mapCatalog map[uint32]domain.ItemInfo

func (c mapCatalog) LookupItem(_ context.Context, id uint32) (domain.ItemInfo, error) {
	info, ok := c[id]
	if !ok {
		return domain.ItemInfo{}, domain.ErrItemNotFound
	}
	return info, nil
}

type surfaceKey struct {
	side  domain.Side
	index int
}

type mapSurface map[surfaceKey]uint32

func (s mapSurface) SlotQuantity(side domain.Side, index int) (uint32, bool) {
	qty, ok := s[surfaceKey{side, index}]
	return qty, ok
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func mockAnyContext() interface{} {
	return mock.Anything
}
