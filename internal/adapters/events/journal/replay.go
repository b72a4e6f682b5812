package journal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/bnema/cashier-cli/internal/domain"
)

const maxLineBytes = 1 << 20

// Sink receives notifications in journal order.
type Sink interface {
	Apply(ctx context.Context, n domain.Notification) error
}

// Stats counts what a replay did with each line.
type Stats struct {
	Lines     int
	Applied   int
	Ignored   int
	Malformed int
	Surface   int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d lines, %d applied, %d ignored, %d malformed, %d surface", s.Lines, s.Applied, s.Ignored, s.Malformed, s.Surface)
}

// Replayer feeds journal lines to a Sink and surface records to a Surface.
type Replayer struct {
	surface *Surface
	logger  *slog.Logger

	mu    sync.Mutex
	stats Stats
}

func NewReplayer(surface *Surface, logger *slog.Logger) *Replayer {
	if surface == nil {
		surface = NewSurface()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Replayer{surface: surface, logger: logger}
}

func (r *Replayer) Surface() *Surface {
	return r.surface
}

// Stats is safe to call while a replay is running.
func (r *Replayer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Replayer) count(update func(*Stats)) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	update(&r.stats)
	return r.stats.Lines
}

// Replay applies every line of reader. Malformed lines and rejected
// notifications are counted and skipped; only read errors and context
// cancellation stop it.
func (r *Replayer) Replay(ctx context.Context, reader io.Reader, sink Sink) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Line(ctx, scanner.Bytes(), sink)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	return nil
}

// Line handles a single journal line.
func (r *Replayer) Line(ctx context.Context, line []byte, sink Sink) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] == '#' {
		return
	}
	lineNo := r.count(func(s *Stats) { s.Lines++ })

	record, err := Decode(line)
	if err != nil {
		r.count(func(s *Stats) { s.Malformed++ })
		r.logger.Warn("journal line skipped", "line", lineNo, "err", err)
		return
	}

	if record.Surface != nil {
		r.count(func(s *Stats) { s.Surface++ })
		r.surface.Update(*record.Surface)
		return
	}

	n := *record.Notification
	if err := sink.Apply(ctx, n); err != nil {
		r.count(func(s *Stats) { s.Ignored++ })
		if !errors.Is(err, domain.ErrIllegalTransition) && !errors.Is(err, domain.ErrMalformedAddress) {
			r.logger.Warn("notification rejected", "event", n.Kind, "err", err)
		}
		return
	}
	r.count(func(s *Stats) { s.Applied++ })

	if n.Kind == domain.EventBegin {
		r.surface.Reset()
	}
}
