package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/bnema/cashier-cli/internal/ports"
)

// Aggregator keeps running totals for consecutive completed sessions with
// the same counterparty. It is owned by TradeService and not safe for
// concurrent use on its own.
type Aggregator struct {
	catalog ports.ItemCatalog
	logger  *slog.Logger

	bucket domain.AggregationBucket
	streak bool
}

func NewAggregator(catalog ports.ItemCatalog, logger *slog.Logger) *Aggregator {
	return &Aggregator{catalog: catalog, logger: loggerOrDiscard(logger)}
}

// Absorb merges a completed session. The bucket starts over when the
// counterparty differs from the previous completion or the streak was broken.
// It reports whether the session extended an existing streak.
func (a *Aggregator) Absorb(ctx context.Context, snapshot domain.SessionSnapshot) bool {
	continued := a.streak && a.bucket.Counterparty.Equal(snapshot.Counterparty)
	if !continued {
		a.bucket = newBucket(snapshot.Counterparty)
	}

	for _, side := range []domain.Side{domain.SideSelf, domain.SidePeer} {
		sideBucket := &a.bucket.Sides[side]
		for _, slot := range snapshot.Slots(side).NonEmpty() {
			record, ok := sideBucket.Items[slot.ItemID]
			if !ok {
				record = domain.RecordItem{
					ItemID:      slot.ItemID,
					DisplayName: a.itemName(ctx, slot.ItemID),
					StackLimit:  slot.StackLimit,
				}
				sideBucket.Order = append(sideBucket.Order, slot.ItemID)
			}
			if slot.HighQuality {
				record.HighQty += uint64(slot.Quantity)
			} else {
				record.NormalQty += uint64(slot.Quantity)
			}
			sideBucket.Items[slot.ItemID] = record
		}
		sideBucket.Gil += uint64(snapshot.Gil(side))
	}

	a.bucket.Sessions++
	a.streak = true

	return continued
}

// BreakStreak makes the next completion start a fresh bucket without
// touching the current totals.
func (a *Aggregator) BreakStreak() {
	a.streak = false
}

func (a *Aggregator) InStreak() bool {
	return a.streak
}

// Bucket returns a deep copy of the current totals.
func (a *Aggregator) Bucket() domain.AggregationBucket {
	out := a.bucket
	for side := range out.Sides {
		src := a.bucket.Sides[side]
		out.Sides[side] = domain.SideBucket{
			Items: make(map[uint32]domain.RecordItem, len(src.Items)),
			Order: append([]uint32(nil), src.Order...),
			Gil:   src.Gil,
		}
		for id, record := range src.Items {
			out.Sides[side].Items[id] = record
		}
	}
	return out
}

func (a *Aggregator) itemName(ctx context.Context, id uint32) string {
	return lookupItem(ctx, a.catalog, a.logger, id).Name
}

func newBucket(counterparty domain.Identity) domain.AggregationBucket {
	return domain.AggregationBucket{
		Counterparty: counterparty,
		Sides: [2]domain.SideBucket{
			{Items: map[uint32]domain.RecordItem{}},
			{Items: map[uint32]domain.RecordItem{}},
		},
	}
}

func lookupItem(ctx context.Context, catalog ports.ItemCatalog, logger *slog.Logger, id uint32) domain.ItemInfo {
	if catalog == nil {
		return domain.UnknownItem(id)
	}

	info, err := catalog.LookupItem(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			logger.Warn("item lookup failed", "item_id", id, "err", err)
		}
		return domain.UnknownItem(id)
	}
	if info.Name == "" {
		info.Name = domain.UnknownItem(id).Name
	}

	return info
}
