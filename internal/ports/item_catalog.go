package ports

import (
	"context"

	"github.com/bnema/cashier-cli/internal/domain"
)

type ItemCatalog interface {
	LookupItem(ctx context.Context, id uint32) (domain.ItemInfo, error)
}
