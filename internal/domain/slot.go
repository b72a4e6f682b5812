package domain

import "fmt"

const SlotsPerSide = 5

type Side int

const (
	SideSelf Side = iota
	SidePeer
)

func (s Side) String() string {
	switch s {
	case SideSelf:
		return "self"
	case SidePeer:
		return "peer"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

func (s Side) Valid() bool {
	return s == SideSelf || s == SidePeer
}

func ParseSide(raw string) (Side, error) {
	switch raw {
	case "self", "0":
		return SideSelf, nil
	case "peer", "1":
		return SidePeer, nil
	default:
		return 0, fmt.Errorf("unknown side %q", raw)
	}
}

// ExchangeSlot holds one distinct item offered in a session. ItemID 0 is empty.
type ExchangeSlot struct {
	ItemID      uint32
	Quantity    uint32
	HighQuality bool
	StackLimit  uint32
}

func (s ExchangeSlot) Empty() bool {
	return s.ItemID == 0
}

// SlotLedger is the fixed set of exchange slots of one side.
type SlotLedger [SlotsPerSide]ExchangeSlot

// Set overwrites the slot at index. Setting item 0 empties it.
func (l *SlotLedger) Set(index int, slot ExchangeSlot) (bool, error) {
	if index < 0 || index >= SlotsPerSide {
		return false, fmt.Errorf("slot index %d: %w", index, ErrMalformedAddress)
	}
	if slot.ItemID == 0 {
		slot = ExchangeSlot{}
	}
	if l[index] == slot {
		return false, nil
	}

	l[index] = slot
	return true, nil
}

// Clear empties the slot at index and reports whether anything changed.
func (l *SlotLedger) Clear(index int) (bool, error) {
	return l.Set(index, ExchangeSlot{})
}

func (l SlotLedger) NonEmpty() []ExchangeSlot {
	slots := make([]ExchangeSlot, 0, SlotsPerSide)
	for _, slot := range l {
		if !slot.Empty() {
			slots = append(slots, slot)
		}
	}
	return slots
}

// MoneyLedger is the gil offered by each side.
type MoneyLedger [2]uint32

func (m *MoneyLedger) Set(side Side, amount uint32) bool {
	if m[side] == amount {
		return false
	}
	m[side] = amount
	return true
}
