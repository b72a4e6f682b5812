package domain

import "fmt"

type EventKind string

const (
	EventBegin        EventKind = "begin"
	EventTarget       EventKind = "target"
	EventSlotItem     EventKind = "slot_item"
	EventSlotClear    EventKind = "slot_clear"
	EventMoney        EventKind = "money"
	EventConfirm      EventKind = "confirm"
	EventFinalConfirm EventKind = "final_confirm"
	EventComplete     EventKind = "complete"
	EventCancel       EventKind = "cancel"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventBegin, EventTarget, EventSlotItem, EventSlotClear, EventMoney,
		EventConfirm, EventFinalConfirm, EventComplete, EventCancel:
		return true
	default:
		return false
	}
}

// HostAddress is the raw slot pointer a host notification carries, together
// with the base of the trade agent it is relative to.
type HostAddress struct {
	Base uint64
	Addr uint64
}

// Notification is one inbound host event. Which fields matter depends on Kind.
// Slot-addressed kinds either carry Side/Slot directly or a raw Address that
// must be translated first.
type Notification struct {
	Kind        EventKind
	Ref         uint64
	Side        Side
	Slot        int
	Address     *HostAddress
	ItemID      uint32
	RawItemID   uint32
	Quantity    uint32
	HighQuality bool
	Amount      uint32
	Confirmed   bool
}

func (n Notification) String() string {
	return fmt.Sprintf("%s(side=%s slot=%d)", n.Kind, n.Side, n.Slot)
}
