package domain

import (
	"fmt"
	"strings"
	"time"
)

// ItemInfo is the static catalog data for an item id.
type ItemInfo struct {
	ID        uint32
	Name      string
	IconID    uint32
	StackSize uint32
}

func UnknownItem(id uint32) ItemInfo {
	return ItemInfo{ID: id, Name: unknownName}
}

// RecordItem accumulates one item across a streak of completed sessions.
type RecordItem struct {
	ItemID      uint32
	DisplayName string
	NormalQty   uint64
	HighQty     uint64
	StackLimit  uint32
}

// SideBucket is the accumulation for one side; Order keeps first-seen order.
type SideBucket struct {
	Items map[uint32]RecordItem
	Order []uint32
	Gil   uint64
}

func (b SideBucket) Empty() bool {
	return len(b.Order) == 0 && b.Gil == 0
}

func (b SideBucket) List() []RecordItem {
	items := make([]RecordItem, 0, len(b.Order))
	for _, id := range b.Order {
		items = append(items, b.Items[id])
	}
	return items
}

// AggregationBucket is the running total for consecutive completed sessions
// with the same counterparty.
type AggregationBucket struct {
	Counterparty Identity
	Sessions     int
	Sides        [2]SideBucket
}

func (b AggregationBucket) Side(side Side) SideBucket {
	return b.Sides[side]
}

// ItemRecord is an item line of a history entry.
type ItemRecord struct {
	ItemID      uint32
	IconID      uint32
	Name        string
	Quantity    uint32
	HighQuality bool
}

// String is the compact form used in exports, e.g. "Iron Ore(HQ)x3".
func (r ItemRecord) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if r.HighQuality {
		b.WriteString("(HQ)")
	}
	fmt.Fprintf(&b, "x%d", r.Quantity)
	return b.String()
}

// HistoryEntry is one finished session. Retained=false means the user
// dismissed it and it is dropped on the next flush.
type HistoryEntry struct {
	ID            string
	Timestamp     time.Time
	Completed     bool
	Counterparty  string
	GilGiven      uint32
	GilReceived   uint32
	ItemsGiven    []ItemRecord
	ItemsReceived []ItemRecord
	Retained      bool
}

// NetGil is what the local player gained in gil, signed.
func (e HistoryEntry) NetGil() int64 {
	return int64(e.GilReceived) - int64(e.GilGiven)
}
