package journal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink accepts everything except a second cancel in a row.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Notification
}

func (s *recordingSink) Apply(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.Kind == domain.EventCancel && len(s.events) > 0 && s.events[len(s.events)-1].Kind == domain.EventCancel {
		return domain.ErrIllegalTransition
	}
	s.events = append(s.events, n)
	return nil
}

func (s *recordingSink) kinds() []domain.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds := make([]domain.EventKind, 0, len(s.events))
	for _, n := range s.events {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func TestReplayerReplayFixture(t *testing.T) {
	file, err := os.Open(filepath.Join("testdata", "two_trades.jsonl"))
	require.NoError(t, err)
	defer file.Close()

	sink := &recordingSink{}
	replayer := NewReplayer(nil, nil)

	require.NoError(t, replayer.Replay(context.Background(), file, sink))

	assert.Equal(t, Stats{Lines: 14, Applied: 12, Ignored: 1, Surface: 1}, replayer.Stats())
	assert.Equal(t, []domain.EventKind{
		domain.EventTarget, domain.EventBegin, domain.EventSlotItem, domain.EventMoney,
		domain.EventConfirm, domain.EventConfirm, domain.EventFinalConfirm, domain.EventComplete,
		domain.EventBegin, domain.EventSlotItem, domain.EventSlotClear, domain.EventCancel,
	}, sink.kinds())

	_, visible := replayer.Surface().SlotQuantity(domain.SideSelf, 0)
	assert.False(t, visible, "surface is reset on begin")
}

func TestReplayerSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"kind":"begin","ref":1}`,
		`garbage`,
		``,
		`{"kind":"nope"}`,
		`{"kind":"complete"}`,
	}, "\n")

	sink := &recordingSink{}
	replayer := NewReplayer(nil, nil)
	require.NoError(t, replayer.Replay(context.Background(), strings.NewReader(input), sink))

	assert.Equal(t, Stats{Lines: 4, Applied: 2, Malformed: 2}, replayer.Stats())
	assert.Equal(t, "4 lines, 2 applied, 0 ignored, 2 malformed, 0 surface", replayer.Stats().String())
}

func TestReplayerStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewReplayer(nil, nil).Replay(ctx, strings.NewReader(`{"kind":"begin"}`), &recordingSink{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestReplayerFollowAppliesAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"kind":"begin","ref":1}`+"\n"), 0o600))

	sink := &recordingSink{}
	replayer := NewReplayer(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- replayer.Follow(ctx, path, sink) }()

	require.Eventually(t, func() bool { return len(sink.kinds()) == 1 }, 2*time.Second, 5*time.Millisecond)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = file.WriteString(`{"kind":"money","side":"self","amount":5}` + "\n" + `{"kind":"comp`)
	require.NoError(t, err)
	require.NoError(t, file.Sync())

	require.Eventually(t, func() bool { return len(sink.kinds()) == 2 }, 2*time.Second, 5*time.Millisecond)

	_, err = file.WriteString(`lete"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	require.Eventually(t, func() bool { return len(sink.kinds()) == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.EventKind{domain.EventBegin, domain.EventMoney, domain.EventComplete}, sink.kinds())
	assert.Zero(t, replayer.Stats().Malformed)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not stop after cancel")
	}
}

func TestReplayerStatsReadableDuringReplay(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "two_trades.jsonl"))
	require.NoError(t, err)

	replayer := NewReplayer(nil, nil)
	done := make(chan error, 1)
	go func() {
		done <- replayer.Replay(context.Background(), strings.NewReader(strings.Repeat(string(data), 50)), &recordingSink{})
	}()

	lines := 0
	for finished := false; !finished; {
		select {
		case err := <-done:
			require.NoError(t, err)
			finished = true
		default:
			current := replayer.Stats().Lines
			assert.GreaterOrEqual(t, current, lines)
			lines = current
		}
	}

	assert.Equal(t, 14*50, replayer.Stats().Lines)
}
