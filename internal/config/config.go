package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/bnema/cashier-cli/internal/logging"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".cashier"
	envPrefix  = "CASHIER"

	KeyHistoryDir      = "history.dir"
	KeyPlayersPath     = "players.path"
	KeyItemsPath       = "items.path"
	KeyIdentityName    = "identity.name"
	KeyIdentityWorld   = "identity.world"
	KeyIdentityWorldID = "identity.world_id"
	KeyIdentityRef     = "identity.object_ref"
	KeyRefreshInterval = "refresh.interval"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
)

var ErrIdentityNotConfigured = errors.New("identity.name and identity.world must be configured")

type Config struct {
	Identity        domain.Identity
	RefreshInterval time.Duration
	Log             logging.Config
}

// Owner is the history key of the configured character.
func (c Config) Owner() (string, error) {
	if strings.TrimSpace(c.Identity.DisplayName) == "" || strings.TrimSpace(c.Identity.WorldName) == "" {
		return "", ErrIdentityNotConfigured
	}
	return c.Identity.OwnerKey(), nil
}

// Load reads ~/.cashier/config.toml into cfg, when present, and applies
// CASHIER_* environment overrides.
func Load(cfg *viper.Viper) (Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyRefreshInterval, "100ms")
	cfg.SetDefault(KeyLogLevel, "warn")
	cfg.SetDefault(KeyLogFormat, "text")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	interval := cfg.GetDuration(KeyRefreshInterval)
	if interval <= 0 {
		return Config{}, fmt.Errorf("invalid %s %q", KeyRefreshInterval, cfg.GetString(KeyRefreshInterval))
	}

	level, err := logging.ParseLevel(cfg.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, err
	}
	format, err := logging.ParseFormat(cfg.GetString(KeyLogFormat))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Identity: domain.Identity{
			WorldID:     cfg.GetUint32(KeyIdentityWorldID),
			WorldName:   strings.TrimSpace(cfg.GetString(KeyIdentityWorld)),
			ObjectRef:   cfg.GetUint64(KeyIdentityRef),
			DisplayName: strings.TrimSpace(cfg.GetString(KeyIdentityName)),
		},
		RefreshInterval: interval,
		Log:             logging.Config{Level: level, Format: format},
	}, nil
}
