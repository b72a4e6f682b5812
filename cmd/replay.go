package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bnema/cashier-cli/internal/adapters/events/journal"
	historyrender "github.com/bnema/cashier-cli/internal/adapters/render/history"
	"github.com/bnema/cashier-cli/internal/application"
	"github.com/spf13/cobra"
)

func newReplayCmd(app *app) *cobra.Command {
	var follow bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "replay <journal>",
		Short: "Reconstruct trades from a notification journal",
		Long:  "Applies every notification of a JSON-lines journal in order and records each completed or cancelled trade in the history of the configured character. With --follow, keeps applying lines appended to the journal until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			path := args[0]
			if !follow {
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
			}

			history, err := app.openHistory(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			outcomes := &outcomeQueue{}
			replayer := journal.NewReplayer(journal.NewSurface(), app.logger)
			trades := application.NewTradeService(app.players, app.items, replayer.Surface(), history, app.clock, application.TradeConfig{
				Local:           app.cfg.Identity,
				RefreshInterval: app.cfg.RefreshInterval,
				Logger:          app.logger,
				OnFinish: func(outcome application.Outcome) {
					if quiet {
						return
					}
					if follow {
						printOutcome(app, out, outcome)
						return
					}
					outcomes.push(outcome)
				},
			})

			var replayErr error
			var stats journal.Stats
			if follow {
				replayErr = replayer.Follow(ctx, path, trades)
				stats = replayer.Stats()
			} else {
				stats, replayErr = runReplaySpinner(ctx, cmd.ErrOrStderr(), filepath.Base(path), replayer, func(ctx context.Context) error {
					return replayFile(ctx, replayer, path, trades)
				})
			}
			trades.Close()

			for _, outcome := range outcomes.drain() {
				printOutcome(app, out, outcome)
			}

			closeErr := history.Close(context.WithoutCancel(ctx))
			if replayErr != nil && !errors.Is(replayErr, context.Canceled) {
				return errors.Join(replayErr, closeErr)
			}
			if closeErr != nil {
				return closeErr
			}

			if !quiet {
				_, _ = fmt.Fprintf(out, "replayed: %s\n", stats)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "Keep applying lines appended to the journal")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only record history, print nothing")

	return cmd
}

func replayFile(ctx context.Context, replayer *journal.Replayer, path string, sink journal.Sink) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	return replayer.Replay(ctx, file, sink)
}

func printOutcome(app *app, out io.Writer, outcome application.Outcome) {
	rendered, err := app.renderer(historyrender.Outcome{Outcome: outcome})
	if err != nil {
		app.logger.Warn("render trade outcome", "err", err)
		return
	}
	_, _ = fmt.Fprintln(out, rendered)
}

// outcomeQueue holds outcomes until the spinner has released the terminal.
type outcomeQueue struct {
	mu    sync.Mutex
	items []application.Outcome
}

func (q *outcomeQueue) push(outcome application.Outcome) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, outcome)
}

func (q *outcomeQueue) drain() []application.Outcome {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
