package ports

import (
	"context"

	"github.com/bnema/cashier-cli/internal/domain"
)

// HistoryStore persists the history log of one local character, keyed by
// domain.Identity.OwnerKey.
type HistoryStore interface {
	Load(ctx context.Context, owner string) ([]domain.HistoryEntry, error)
	Save(ctx context.Context, owner string, entries []domain.HistoryEntry) error
}

// TableWriter writes a flat delimited table to path.
type TableWriter interface {
	WriteTable(ctx context.Context, path string, header []string, rows [][]string) error
}
