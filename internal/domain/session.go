package domain

import "fmt"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseFinalConfirm
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseFinalConfirm:
		return "final_confirm"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// InSession reports whether a session is open in this phase.
func (p Phase) InSession() bool {
	return p == PhaseActive || p == PhaseFinalConfirm
}

// Ledger is everything the two parties currently offer.
type Ledger struct {
	Slots     [2]SlotLedger
	Gil       MoneyLedger
	Confirmed [2]bool
}

// SessionSnapshot is a copy of the session state at one point in time.
// Revision increases on every effective mutation and never on no-ops.
type SessionSnapshot struct {
	Counterparty  Identity
	SelfSlots     SlotLedger
	PeerSlots     SlotLedger
	SelfGil       uint32
	PeerGil       uint32
	SelfConfirmed bool
	PeerConfirmed bool
	Phase         Phase
	Revision      uint64
}

func NewSnapshot(counterparty Identity, ledger Ledger, phase Phase, revision uint64) SessionSnapshot {
	return SessionSnapshot{
		Counterparty:  counterparty,
		SelfSlots:     ledger.Slots[SideSelf],
		PeerSlots:     ledger.Slots[SidePeer],
		SelfGil:       ledger.Gil[SideSelf],
		PeerGil:       ledger.Gil[SidePeer],
		SelfConfirmed: ledger.Confirmed[SideSelf],
		PeerConfirmed: ledger.Confirmed[SidePeer],
		Phase:         phase,
		Revision:      revision,
	}
}

func (s SessionSnapshot) Slots(side Side) SlotLedger {
	if side == SidePeer {
		return s.PeerSlots
	}
	return s.SelfSlots
}

func (s SessionSnapshot) Gil(side Side) uint32 {
	if side == SidePeer {
		return s.PeerGil
	}
	return s.SelfGil
}
