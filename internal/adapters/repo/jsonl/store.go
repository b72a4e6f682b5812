package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/bnema/cashier-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	historyDirKey    = "history.dir"
	historyDir       = ".cashier/history"
	fileMode         = 0o600
	dirMode          = 0o700
	recordVersion    = 1
	maxLineBytes     = 1 << 20
	timestampLayout  = time.RFC3339Nano
	historyExtension = ".jsonl"
)

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.Mutex{}
)

// Store keeps one JSON-lines file per local character under a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

var _ ports.HistoryStore = (*Store)(nil)

func NewStore(cfg *viper.Viper, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dir := cfg.GetString(historyDirKey)
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(homeDir, historyDir)
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve history directory: %w", err)
	}

	return &Store{dir: filepath.Clean(dir), logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Path is the file holding owner's history.
func (s *Store) Path(owner string) string {
	return filepath.Join(s.dir, sanitizeOwner(owner)+historyExtension)
}

// Load returns every entry in file order. Lines that cannot be decoded are
// skipped and logged.
func (s *Store) Load(ctx context.Context, owner string) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(owner)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	entries := []domain.HistoryEntry{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		entry, err := decodeLine(line)
		if err != nil {
			s.logger.Warn("history line skipped", "path", path, "line", lineNo, "err", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	return entries, nil
}

// Save replaces owner's file with entries.
func (s *Store) Save(ctx context.Context, owner string, entries []domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	for _, entry := range entries {
		if err := encoder.Encode(toRecord(entry)); err != nil {
			return fmt.Errorf("encode history entry %s: %w", entry.ID, err)
		}
	}

	path := s.Path(owner)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeAtomic(path, buf.Bytes())
}

func decodeLine(line []byte) (domain.HistoryEntry, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("decode history line: %w", err)
	}
	if rec.Version > recordVersion {
		return domain.HistoryEntry{}, fmt.Errorf("unsupported history record version %d (current %d)", rec.Version, recordVersion)
	}

	return fromRecord(rec)
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".history-*.jsonl.tmp")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
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
		return fmt.Errorf("write temp history file: %w", err)
	}

	if err := tempFile.Chmod(fileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp history file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp history file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}

	cleanup = false
	return nil
}

func sanitizeOwner(owner string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "_"
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, owner)
}

func lockForPath(path string) *sync.Mutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.Mutex{}
	pathLockMap[path] = mu
	return mu
}
