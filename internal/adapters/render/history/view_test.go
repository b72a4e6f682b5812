package history

import (
	"testing"
	"time"

	"github.com/bnema/cashier-cli/internal/application"
	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func TestRenderLog(t *testing.T) {
	output, err := Render(Log{
		Owner: "Gaia_Me",
		Entries: []domain.HistoryEntry{
			{
				ID:           "e1",
				Timestamp:    stamp,
				Completed:    true,
				Counterparty: "Alice@Gaia",
				GilGiven:     1500,
				GilReceived:  200,
				ItemsGiven:   []domain.ItemRecord{{ItemID: 5000, Name: "Iron Ore", Quantity: 1200, HighQuality: true}},
				Retained:     true,
			},
			{
				ID:            "e2",
				Timestamp:     stamp.Add(time.Minute),
				Counterparty:  "Bob@Gaia",
				GilReceived:   99,
				ItemsReceived: []domain.ItemRecord{{ItemID: 7000, Name: "Potion", Quantity: 2}},
				Retained:      false,
			},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Trade History - Gaia_Me")
	assert.Contains(t, output, "entries: 2")
	assert.Contains(t, output, "Alice@Gaia 2026-03-14 18:30:00")
	assert.Contains(t, output, "given: Iron Ore(HQ) x1,200, 1,500 gil")
	assert.Contains(t, output, "received: 200 gil")
	assert.Contains(t, output, "net: -1,300 gil")
	assert.Contains(t, output, "[cancelled]")
	assert.Contains(t, output, "[dismissed]")
	assert.Contains(t, output, "received: Potion x2, 99 gil")
	assert.Contains(t, output, "net gil: -1,300 gil")
}

func TestRenderEmptyLogWithTarget(t *testing.T) {
	output, err := Render(Log{Target: "Alice@Gaia"})

	require.NoError(t, err)
	assert.Contains(t, output, "entries: 0 (target Alice@Gaia)")
	assert.Contains(t, output, "No trades recorded.")
}

func TestRenderTargets(t *testing.T) {
	output, err := Render(Targets{Owner: "Gaia_Me", Targets: []string{"Alice@Gaia", "Bob@Gaia"}})

	require.NoError(t, err)
	assert.Contains(t, output, "partners: 2")
	assert.Contains(t, output, "Alice@Gaia")
	assert.Contains(t, output, "Bob@Gaia")
}

func TestRenderOutcomeWithStreak(t *testing.T) {
	alice := domain.Identity{DisplayName: "Alice", WorldName: "Gaia"}
	output, err := Render(Outcome{Outcome: application.Outcome{
		Completed: true,
		Continued: true,
		Entry: domain.HistoryEntry{
			ID:           "e3",
			Timestamp:    stamp,
			Completed:    true,
			Counterparty: "Alice@Gaia",
			GilReceived:  5000,
			ItemsGiven:   []domain.ItemRecord{{ItemID: 5000, Name: "Iron Ore", Quantity: 203}},
			Retained:     true,
		},
		Streak: domain.AggregationBucket{
			Counterparty: alice,
			Sessions:     2,
			Sides: [2]domain.SideBucket{
				{
					Items: map[uint32]domain.RecordItem{
						5000: {ItemID: 5000, DisplayName: "Iron Ore", NormalQty: 203, HighQty: 99, StackLimit: 99},
					},
					Order: []uint32{5000},
				},
				{Items: map[uint32]domain.RecordItem{}, Gil: 12000},
			},
		},
	}})

	require.NoError(t, err)
	assert.Contains(t, output, "net: +5,000 gil")
	assert.Contains(t, output, "Streak with Alice@Gaia (2 trades)")
	assert.Contains(t, output, "Iron Ore: 2 stacks + 5")
	assert.Contains(t, output, "Iron Ore(HQ): 1 stack")
	assert.Contains(t, output, "12,000 gil")
	assert.Contains(t, output, "net: +12,000 gil")
}

func TestRenderOutcomeCancelledHasNoStreak(t *testing.T) {
	output, err := Render(Outcome{Outcome: application.Outcome{
		Entry: domain.HistoryEntry{ID: "e4", Timestamp: stamp, Counterparty: "???@???"},
		Streak: domain.AggregationBucket{
			Counterparty: domain.Identity{DisplayName: "Alice", WorldName: "Gaia"},
			Sessions:     3,
		},
	}})

	require.NoError(t, err)
	assert.Contains(t, output, "[cancelled]")
	assert.Contains(t, output, "given: nothing")
	assert.NotContains(t, output, "Streak with")
	assert.NotContains(t, output, "net:")
}
