package toml

import (
	"context"
	"errors"
	"strings"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/bnema/cashier-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	itemsPathKey = "items.path"
	itemsFile    = "items.toml"
)

// ItemCatalog is the static item table, stored in items.toml.
type ItemCatalog struct {
	doc document
}

var _ ports.ItemCatalog = (*ItemCatalog)(nil)

func NewItemCatalog(cfg *viper.Viper) (*ItemCatalog, error) {
	doc, err := openDocument(cfg, "items", itemsPathKey, itemsFile)
	if err != nil {
		return nil, err
	}

	return &ItemCatalog{doc: doc}, nil
}

func (c *ItemCatalog) Path() string {
	return c.doc.path
}

func (c *ItemCatalog) Save(ctx context.Context, item domain.ItemInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item.ID == 0 {
		return errors.New("item id is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		return errors.New("item name is required")
	}

	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()

	file, err := c.readSchema()
	if err != nil {
		return err
	}

	encoded := itemSchema{ID: item.ID, Name: item.Name, IconID: item.IconID, StackSize: item.StackSize}
	updated := false
	for i := range file.Items {
		if file.Items[i].ID == encoded.ID {
			file.Items[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Items = append(file.Items, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return c.doc.write(file)
}

func (c *ItemCatalog) LookupItem(ctx context.Context, id uint32) (domain.ItemInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.ItemInfo{}, err
	}

	c.doc.mu.RLock()
	defer c.doc.mu.RUnlock()

	file, err := c.readSchema()
	if err != nil {
		return domain.ItemInfo{}, err
	}

	for _, entry := range file.Items {
		if entry.ID == id {
			return itemFromSchema(entry), nil
		}
	}

	return domain.ItemInfo{}, domain.ErrItemNotFound
}

func (c *ItemCatalog) List(ctx context.Context) ([]domain.ItemInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.doc.mu.RLock()
	defer c.doc.mu.RUnlock()

	file, err := c.readSchema()
	if err != nil {
		return nil, err
	}

	items := make([]domain.ItemInfo, 0, len(file.Items))
	for _, entry := range file.Items {
		items = append(items, itemFromSchema(entry))
	}

	return items, nil
}

func (c *ItemCatalog) readSchema() (itemsFileSchema, error) {
	var file itemsFileSchema
	if err := c.doc.read(&file); err != nil {
		return itemsFileSchema{}, err
	}
	if err := validateVersion(c.doc.kind, file.Version); err != nil {
		return itemsFileSchema{}, err
	}
	applyDefaults(&file.Version)

	return file, nil
}

func itemFromSchema(entry itemSchema) domain.ItemInfo {
	return domain.ItemInfo{
		ID:        entry.ID,
		Name:      entry.Name,
		IconID:    entry.IconID,
		StackSize: entry.StackSize,
	}
}
