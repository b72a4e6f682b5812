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
	playersPathKey = "players.path"
	playersFile    = "players.toml"
)

// PlayerDirectory maps host object references to players, stored in
// players.toml.
type PlayerDirectory struct {
	doc document
}

var _ ports.IdentityDirectory = (*PlayerDirectory)(nil)

func NewPlayerDirectory(cfg *viper.Viper) (*PlayerDirectory, error) {
	doc, err := openDocument(cfg, "players", playersPathKey, playersFile)
	if err != nil {
		return nil, err
	}

	return &PlayerDirectory{doc: doc}, nil
}

func (d *PlayerDirectory) Path() string {
	return d.doc.path
}

// Save inserts the player or replaces the one with the same reference.
func (d *PlayerDirectory) Save(ctx context.Context, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if identity.ObjectRef == 0 {
		return errors.New("player reference is required")
	}
	if strings.TrimSpace(identity.DisplayName) == "" || strings.TrimSpace(identity.WorldName) == "" {
		return errors.New("player name and world are required")
	}

	d.doc.mu.Lock()
	defer d.doc.mu.Unlock()

	file, err := d.readSchema()
	if err != nil {
		return err
	}

	encoded := playerSchema{
		Ref:     identity.ObjectRef,
		Name:    identity.DisplayName,
		World:   identity.WorldName,
		WorldID: identity.WorldID,
	}
	updated := false
	for i := range file.Players {
		if file.Players[i].Ref == encoded.Ref {
			file.Players[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Players = append(file.Players, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return d.doc.write(file)
}

func (d *PlayerDirectory) Resolve(ctx context.Context, ref uint64) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}

	d.doc.mu.RLock()
	defer d.doc.mu.RUnlock()

	file, err := d.readSchema()
	if err != nil {
		return domain.Identity{}, err
	}

	for _, entry := range file.Players {
		if entry.Ref == ref {
			return playerFromSchema(entry), nil
		}
	}

	return domain.Identity{}, domain.ErrIdentityNotFound
}

func (d *PlayerDirectory) List(ctx context.Context) ([]domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.doc.mu.RLock()
	defer d.doc.mu.RUnlock()

	file, err := d.readSchema()
	if err != nil {
		return nil, err
	}

	players := make([]domain.Identity, 0, len(file.Players))
	for _, entry := range file.Players {
		players = append(players, playerFromSchema(entry))
	}

	return players, nil
}

func (d *PlayerDirectory) readSchema() (playersFileSchema, error) {
	var file playersFileSchema
	if err := d.doc.read(&file); err != nil {
		return playersFileSchema{}, err
	}
	if err := validateVersion(d.doc.kind, file.Version); err != nil {
		return playersFileSchema{}, err
	}
	applyDefaults(&file.Version)

	return file, nil
}

func playerFromSchema(entry playerSchema) domain.Identity {
	return domain.Identity{
		WorldID:     entry.WorldID,
		WorldName:   entry.World,
		ObjectRef:   entry.Ref,
		DisplayName: entry.Name,
	}
}
