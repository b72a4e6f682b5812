package ports

import "github.com/bnema/cashier-cli/internal/domain"

// PresentationSurface exposes what the host UI currently shows for a slot.
// ok is false while the slot's quantity is not visible.
type PresentationSurface interface {
	SlotQuantity(side domain.Side, index int) (qty uint32, ok bool)
}
