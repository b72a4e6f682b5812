package toml

import "fmt"

const currentSchemaVersion = 1

type playersFileSchema struct {
	Version int            `toml:"version"`
	Players []playerSchema `toml:"players"`
}

type itemsFileSchema struct {
	Version int          `toml:"version"`
	Items   []itemSchema `toml:"items"`
}

type playerSchema struct {
	Ref     uint64 `toml:"ref"`
	Name    string `toml:"name"`
	World   string `toml:"world"`
	WorldID uint32 `toml:"world_id,omitempty"`
}

type itemSchema struct {
	ID        uint32 `toml:"id"`
	Name      string `toml:"name"`
	IconID    uint32 `toml:"icon_id,omitempty"`
	StackSize uint32 `toml:"stack_size,omitempty"`
}

func applyDefaults(version *int) {
	if *version == 0 {
		*version = currentSchemaVersion
	}
}

func validateVersion(kind string, version int) error {
	if version > currentSchemaVersion {
		return fmt.Errorf("unsupported %s schema version %d (current %d)", kind, version, currentSchemaVersion)
	}

	return nil
}
