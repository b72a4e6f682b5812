package journal

import (
	"sync"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/bnema/cashier-cli/internal/ports"
)

type slotKey struct {
	side domain.Side
	slot int
}

// Surface is a presentation surface fed by journal surface records.
type Surface struct {
	mu    sync.RWMutex
	slots map[slotKey]uint32
}

var _ ports.PresentationSurface = (*Surface)(nil)

func NewSurface() *Surface {
	return &Surface{slots: map[slotKey]uint32{}}
}

func (s *Surface) Update(update SurfaceUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{update.Side, update.Slot}
	if !update.Visible {
		delete(s.slots, key)
		return
	}
	s.slots[key] = update.Quantity
}

func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.slots)
}

func (s *Surface) SlotQuantity(side domain.Side, index int) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	qty, ok := s.slots[slotKey{side, index}]
	return qty, ok
}
