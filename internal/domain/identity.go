package domain

import "strings"

const unknownName = "???"

// Identity is a player as resolved by the host's object directory.
// WorldID and ObjectRef are supplementary; equality only looks at the
// display name and world name so that reconnects keep continuity.
type Identity struct {
	WorldID     uint32
	WorldName   string
	ObjectRef   uint64
	DisplayName string
}

func UnknownIdentity() Identity {
	return Identity{WorldName: unknownName, DisplayName: unknownName}
}

func (i Identity) Equal(other Identity) bool {
	return i.DisplayName == other.DisplayName && i.WorldName == other.WorldName
}

func (i Identity) IsZero() bool {
	return i.DisplayName == "" && i.WorldName == ""
}

func (i Identity) IsUnknown() bool {
	return i.Equal(UnknownIdentity())
}

// Key is the counterparty string stored in history, "Name@World".
func (i Identity) Key() string {
	return i.DisplayName + "@" + i.WorldName
}

// OwnerKey names the per-character history store, "World_Name".
func (i Identity) OwnerKey() string {
	return strings.TrimSpace(i.WorldName) + "_" + strings.TrimSpace(i.DisplayName)
}
