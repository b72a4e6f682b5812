package cmd

import (
	"context"
	"fmt"
	"log/slog"

	csvexport "github.com/bnema/cashier-cli/internal/adapters/export/csv"
	historyrender "github.com/bnema/cashier-cli/internal/adapters/render/history"
	jsonlrepo "github.com/bnema/cashier-cli/internal/adapters/repo/jsonl"
	tomlrepo "github.com/bnema/cashier-cli/internal/adapters/repo/toml"
	"github.com/bnema/cashier-cli/internal/application"
	"github.com/bnema/cashier-cli/internal/config"
	"github.com/bnema/cashier-cli/internal/logging"
	"github.com/bnema/cashier-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg      config.Config
	logger   *slog.Logger
	players  *tomlrepo.PlayerDirectory
	items    *tomlrepo.ItemCatalog
	store    *jsonlrepo.Store
	tables   ports.TableWriter
	clock    ports.Clock
	renderer func(historyrender.Document) (string, error)
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Log)

	players, err := tomlrepo.NewPlayerDirectory(v)
	if err != nil {
		return nil, fmt.Errorf("wire player directory: %w", err)
	}

	items, err := tomlrepo.NewItemCatalog(v)
	if err != nil {
		return nil, fmt.Errorf("wire item catalog: %w", err)
	}

	store, err := jsonlrepo.NewStore(v, logger)
	if err != nil {
		return nil, fmt.Errorf("wire history store: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		players:  players,
		items:    items,
		store:    store,
		tables:   csvexport.NewWriter(),
		clock:    ports.SystemClock{},
		renderer: historyrender.Render,
	}, nil
}

// openHistory returns the loaded history of the configured character.
func (a *app) openHistory(ctx context.Context) (*application.HistoryService, error) {
	owner, err := a.cfg.Owner()
	if err != nil {
		return nil, err
	}

	history := application.NewHistoryService(a.store, a.tables, owner, a.logger)
	if err := history.Load(ctx); err != nil {
		return nil, err
	}

	return history, nil
}
