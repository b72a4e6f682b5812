package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	fileMode  = 0o600
	dirMode   = 0o700
	configDir = ".cashier"
)

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

// document is one TOML file guarded by a process-wide lock per path.
type document struct {
	kind string
	path string
	mu   *sync.RWMutex
}

func openDocument(cfg *viper.Viper, kind, pathKey, fileName string) (document, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(pathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return document{}, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, configDir, fileName)
	}

	path, err := normalizePath(kind, path)
	if err != nil {
		return document{}, err
	}

	return document{kind: kind, path: path, mu: lockForPath(path)}, nil
}

func (d document) read(out any) error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s file: %w", d.kind, err)
	}

	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s file: %w", d.kind, err)
	}

	return nil
}

func (d document) write(in any) error {
	if err := os.MkdirAll(filepath.Dir(d.path), dirMode); err != nil {
		return fmt.Errorf("create %s directory: %w", d.kind, err)
	}

	data, err := toml.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s file: %w", d.kind, err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(d.path), "."+d.kind+"-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("create temp %s file: %w", d.kind, err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp %s file: %w", d.kind, err)
	}

	if err := tempFile.Chmod(fileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp %s file: %w", d.kind, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp %s file: %w", d.kind, err)
	}

	if err := os.Rename(tempName, d.path); err != nil {
		return fmt.Errorf("replace %s file: %w", d.kind, err)
	}

	cleanup = false

	if err := os.Chmod(d.path, fileMode); err != nil {
		return fmt.Errorf("chmod %s file: %w", d.kind, err)
	}

	return nil
}

func normalizePath(kind, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s path: %w", kind, err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
