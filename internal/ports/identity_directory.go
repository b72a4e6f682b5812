package ports

import (
	"context"

	"github.com/bnema/cashier-cli/internal/domain"
)

// IdentityDirectory resolves host object references to players.
// Resolve returns domain.ErrIdentityNotFound when the reference is unknown.
type IdentityDirectory interface {
	Resolve(ctx context.Context, ref uint64) (domain.Identity, error)
}
