package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/cashier-cli/internal/logging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, content string) {
	t.Helper()

	dir := filepath.Join(home, ".cashier")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelWarn, cfg.Log.Level)
	assert.Equal(t, logging.FormatText, cfg.Log.Format)
	_, err = cfg.Owner()
	require.ErrorIs(t, err, ErrIdentityNotConfigured)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
[identity]
name = "Me"
world = "Gaia"
world_id = 21
object_ref = 7

[refresh]
interval = "250ms"

[log]
level = "debug"
format = "json"

[history]
dir = "/tmp/cashier-history"
`)

	v := viper.New()
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "Me", cfg.Identity.DisplayName)
	assert.Equal(t, "Gaia", cfg.Identity.WorldName)
	assert.Equal(t, uint32(21), cfg.Identity.WorldID)
	assert.Equal(t, uint64(7), cfg.Identity.ObjectRef)
	assert.Equal(t, 250*time.Millisecond, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Log.Format)
	assert.Equal(t, "/tmp/cashier-history", v.GetString(KeyHistoryDir))

	owner, err := cfg.Owner()
	require.NoError(t, err)
	assert.Equal(t, "Gaia_Me", owner)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[identity]\nname = \"Me\"\nworld = \"Gaia\"\n")
	t.Setenv("CASHIER_IDENTITY_NAME", "Alt")
	t.Setenv("CASHIER_PLAYERS_PATH", "/tmp/players.toml")

	v := viper.New()
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "Alt", cfg.Identity.DisplayName)
	assert.Equal(t, "/tmp/players.toml", v.GetString(KeyPlayersPath))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad interval", content: "[refresh]\ninterval = \"soon\"\n"},
		{name: "bad level", content: "[log]\nlevel = \"loud\"\n"},
		{name: "bad format", content: "[log]\nformat = \"xml\"\n"},
		{name: "bad toml", content: "[log\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)
			writeConfig(t, home, tt.content)

			_, err := Load(viper.New())
			require.Error(t, err)
		})
	}
}
