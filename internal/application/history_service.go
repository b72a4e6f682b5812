package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/bnema/cashier-cli/internal/ports"
	"github.com/google/uuid"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var (
	ErrHistoryEntryNotFound = errors.New("history entry not found")

	ExportHeader = []string{"Time", "Status", "Counterparty", "Gil Given", "Gil Received", "Items Given", "Items Received"}
)

// HistoryService is the append-only log of finished sessions for one local
// character. Persistence runs one operation at a time; Flush writes a copy
// of the log taken when it starts.
type HistoryService struct {
	store  ports.HistoryStore
	tables ports.TableWriter
	owner  string
	logger *slog.Logger

	mu       sync.Mutex
	entries  []domain.HistoryEntry
	ids      map[string]struct{}
	targets  map[string]struct{}
	revision uint64
	saved    uint64
	lastErr  error
	// loadErr is set while the persisted log could not be read; saving
	// then would replace it with the in-memory entries only.
	loadErr error

	persist sync.Mutex
	wg      sync.WaitGroup
}

func NewHistoryService(store ports.HistoryStore, tables ports.TableWriter, owner string, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		store:   store,
		tables:  tables,
		owner:   owner,
		logger:  loggerOrDiscard(logger),
		ids:     map[string]struct{}{},
		targets: map[string]struct{}{},
	}
}

func (h *HistoryService) Owner() string {
	return h.owner
}

// Load reads the persisted log. Entries recorded before Load finishes are
// kept after the persisted ones.
func (h *HistoryService) Load(ctx context.Context) error {
	h.persist.Lock()
	defer h.persist.Unlock()
	return h.loadLocked(ctx)
}

// LoadAsync runs Load in the background; failures are logged and kept in Err.
// The persistence lock is taken before it returns, so a Flush or Export
// issued afterwards waits for the load.
func (h *HistoryService) LoadAsync(ctx context.Context) {
	h.persist.Lock()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.persist.Unlock()
		if err := h.loadLocked(ctx); err != nil {
			h.logger.Error("history load failed", "owner", h.owner, "err", err)
		}
	}()
}

func (h *HistoryService) loadLocked(ctx context.Context) error {
	loaded, err := h.store.Load(ctx, h.owner)
	if err != nil {
		wrapped := fmt.Errorf("%w: load history: %w", domain.ErrPersistence, err)
		h.mu.Lock()
		h.lastErr = err
		h.loadErr = wrapped
		h.mu.Unlock()
		return wrapped
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	pending := h.entries
	h.entries = make([]domain.HistoryEntry, 0, len(loaded)+len(pending))
	h.ids = make(map[string]struct{}, len(loaded)+len(pending))
	h.targets = map[string]struct{}{}

	for _, entry := range loaded {
		entry.Retained = true
		h.appendLocked(entry)
	}
	for _, entry := range pending {
		h.appendLocked(entry)
	}
	h.loadErr = nil

	h.logger.Debug("history loaded", "owner", h.owner, "entries", len(h.entries))
	return nil
}

// Record appends an entry and marks the log dirty. Entries whose id is
// already present are ignored.
func (h *HistoryService) Record(entry domain.HistoryEntry) bool {
	if entry.ID == "" {
		entry.ID = uuid.Must(uuid.NewV7()).String()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.appendLocked(entry) {
		h.logger.Debug("duplicate history entry ignored", "id", entry.ID)
		return false
	}
	h.revision++

	return true
}

// Entries returns the whole log, or only the entries of target when it is
// not empty. Matching is exact and case-sensitive.
func (h *HistoryService) Entries(target string) []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.filterLocked(target, false)
}

// Targets returns the distinct counterparties, sorted.
func (h *HistoryService) Targets() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make([]string, 0, len(h.targets))
	for target := range h.targets {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	return targets
}

// Delete removes every entry of target, or everything when target is empty.
func (h *HistoryService) Delete(target string) int {
	h.persist.Lock()
	defer h.persist.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	kept := h.entries[:0]
	for _, entry := range h.entries {
		if target == "" || entry.Counterparty == target {
			delete(h.ids, entry.ID)
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	h.entries = kept

	if target == "" {
		h.targets = map[string]struct{}{}
	} else {
		delete(h.targets, target)
	}
	h.revision++

	return removed
}

// Dismiss marks an entry as not retained; it disappears on the next flush.
func (h *HistoryService) Dismiss(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.entries {
		if h.entries[i].ID != id {
			continue
		}
		if h.entries[i].Retained {
			h.entries[i].Retained = false
			h.revision++
		}
		return nil
	}

	return fmt.Errorf("dismiss %q: %w", id, ErrHistoryEntryNotFound)
}

func (h *HistoryService) Dirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revision != h.saved
}

// Err returns the last persistence failure, if any.
func (h *HistoryService) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// Flush writes the retained entries when the log is dirty and then drops the
// dismissed ones from memory. The dirty flag only clears on success. Nothing
// is written while the last load failed.
func (h *HistoryService) Flush(ctx context.Context) error {
	h.persist.Lock()
	defer h.persist.Unlock()

	h.mu.Lock()
	if h.revision == h.saved {
		h.mu.Unlock()
		return nil
	}
	if h.loadErr != nil {
		loadErr := h.loadErr
		h.mu.Unlock()
		return fmt.Errorf("save history: %w", loadErr)
	}
	revision := h.revision
	retained := make([]domain.HistoryEntry, 0, len(h.entries))
	dropped := map[string]struct{}{}
	for _, entry := range h.entries {
		if !entry.Retained {
			dropped[entry.ID] = struct{}{}
			continue
		}
		retained = append(retained, cloneEntry(entry))
	}
	h.mu.Unlock()

	if err := h.store.Save(ctx, h.owner, retained); err != nil {
		h.setErr(err)
		return fmt.Errorf("%w: save history: %w", domain.ErrPersistence, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.saved = revision
	h.lastErr = nil
	if len(dropped) > 0 {
		kept := h.entries[:0]
		for _, entry := range h.entries {
			if _, ok := dropped[entry.ID]; ok {
				delete(h.ids, entry.ID)
				continue
			}
			kept = append(kept, entry)
		}
		h.entries = kept
		h.rebuildTargetsLocked()
	}

	h.logger.Debug("history flushed", "owner", h.owner, "entries", len(retained), "dropped", len(dropped))
	return nil
}

// FlushAsync runs Flush in the background.
func (h *HistoryService) FlushAsync(ctx context.Context) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.Flush(ctx); err != nil {
			h.logger.Error("history flush failed", "owner", h.owner, "err", err)
		}
	}()
}

// Wait blocks until background loads and flushes have returned.
func (h *HistoryService) Wait() {
	h.wg.Wait()
}

// Close waits for background work and flushes what is still dirty.
func (h *HistoryService) Close(ctx context.Context) error {
	h.Wait()
	return h.Flush(ctx)
}

// Export writes the retained entries of target (or all) as a table and
// returns the path written, which always ends in ".csv".
func (h *HistoryService) Export(ctx context.Context, path string, target string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("export path is empty")
	}
	if !strings.HasSuffix(path, ".csv") {
		path += ".csv"
	}

	h.persist.Lock()
	defer h.persist.Unlock()

	h.mu.Lock()
	entries := h.filterLocked(target, true)
	h.mu.Unlock()

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, exportRow(entry))
	}

	if err := h.tables.WriteTable(ctx, path, ExportHeader, rows); err != nil {
		h.setErr(err)
		return "", fmt.Errorf("%w: export history: %w", domain.ErrPersistence, err)
	}

	h.logger.Info("history exported", "path", path, "rows", len(rows))
	return path, nil
}

func (h *HistoryService) appendLocked(entry domain.HistoryEntry) bool {
	if _, ok := h.ids[entry.ID]; ok {
		return false
	}
	h.ids[entry.ID] = struct{}{}
	h.entries = append(h.entries, cloneEntry(entry))
	h.targets[entry.Counterparty] = struct{}{}
	return true
}

func (h *HistoryService) filterLocked(target string, retainedOnly bool) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(h.entries))
	for _, entry := range h.entries {
		if target != "" && entry.Counterparty != target {
			continue
		}
		if retainedOnly && !entry.Retained {
			continue
		}
		out = append(out, cloneEntry(entry))
	}
	return out
}

func (h *HistoryService) rebuildTargetsLocked() {
	h.targets = make(map[string]struct{}, len(h.targets))
	for _, entry := range h.entries {
		h.targets[entry.Counterparty] = struct{}{}
	}
}

func (h *HistoryService) setErr(err error) {
	h.mu.Lock()
	h.lastErr = err
	h.mu.Unlock()
}

func exportRow(entry domain.HistoryEntry) []string {
	return []string{
		entry.Timestamp.Format(exportTimeLayout),
		strconv.FormatBool(entry.Completed),
		entry.Counterparty,
		domain.FormatGil(uint64(entry.GilGiven)),
		domain.FormatGil(uint64(entry.GilReceived)),
		joinItems(entry.ItemsGiven),
		joinItems(entry.ItemsReceived),
	}
}

func joinItems(items []domain.ItemRecord) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, ",")
}

func cloneEntry(entry domain.HistoryEntry) domain.HistoryEntry {
	entry.ItemsGiven = slices.Clone(entry.ItemsGiven)
	entry.ItemsReceived = slices.Clone(entry.ItemsReceived)
	return entry
}
