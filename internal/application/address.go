package application

import (
	"fmt"

	"github.com/bnema/cashier-cli/internal/domain"
)

// Layout of the host's trade agent: ten slot structs, self first, starting
// 48 bytes into the agent and 136 bytes apart. Raw item ids carry the HQ
// flag as an offset of one million.
const (
	hostSlotOffset    = 48
	hostSlotStride    = 136
	hostSlotCount     = 2 * domain.SlotsPerSide
	hostHighQualityID = 1_000_000
)

// TranslateSlotAddress maps a raw host slot pointer to a side and slot index.
// It is the only place that knows the host layout.
func TranslateSlotAddress(addr domain.HostAddress) (domain.Side, int, error) {
	if addr.Base == 0 || addr.Addr < addr.Base+hostSlotOffset {
		return 0, 0, fmt.Errorf("address %#x below agent %#x: %w", addr.Addr, addr.Base, domain.ErrMalformedAddress)
	}

	index := (addr.Addr - addr.Base - hostSlotOffset) / hostSlotStride
	if index >= hostSlotCount {
		return 0, 0, fmt.Errorf("address %#x maps to slot %d: %w", addr.Addr, index, domain.ErrMalformedAddress)
	}

	return domain.Side(index / domain.SlotsPerSide), int(index % domain.SlotsPerSide), nil
}

// DecodeItemID splits a raw host item id into the catalog id and HQ flag.
func DecodeItemID(raw uint32) (uint32, bool) {
	return raw % hostHighQualityID, raw >= hostHighQualityID
}
