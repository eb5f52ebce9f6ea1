package cmd

import (
	"context"
	"fmt"
	"strings"

	"blueprint-browser/catalog"
	"blueprint-browser/config"
	"blueprint-browser/db"
	"blueprint-browser/logger"

	"go.uber.org/zap"
)

// app bundles what every command needs once configuration is loaded.
type app struct {
	cfg        config.Config
	controller *catalog.Controller
	history    *db.FetchLog // nil when HISTORY_ENABLED=false
}

// bootstrap handles shared initialization logic for commands. Errors are returned
// through RunE so cobra prints them on stderr; the log file alone is easy to miss.
func bootstrap(path string) (*app, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Errorw("Failed to load configuration", zap.Error(err))
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		logger.Log.Errorw("Failed to initialize", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func newApp(cfg config.Config) (*app, error) {
	a := &app{cfg: cfg}

	var recorder catalog.AttemptRecorder
	if cfg.HistoryEnabled {
		if err := db.InitDatabase(cfg.DatabasePath); err != nil {
			return nil, err
		}
		logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))
		a.history = db.NewFetchLog(db.DB, logger.Log)
		recorder = a.history
	}

	source, err := catalog.NewSource(catalog.SourceOptions{
		Origin:     cfg.SiteOrigin,
		RemoteBase: cfg.RemoteBaseURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.HTTPTimeout,
		Recorder:   recorder,
	}, logger.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog source: %w", err)
	}

	a.controller = catalog.NewController(source, logger.Log)
	return a, nil
}

// load runs one refresh and returns the resulting state, for the one-shot commands.
func (a *app) load(ctx context.Context) (catalog.State, error) {
	if err := a.controller.Refresh(ctx); err != nil {
		return catalog.State{}, err
	}
	return a.controller.Snapshot(), nil
}

// defaultSort resolves the configured DEFAULT_SORT, falling back to score.
func (a *app) defaultSort() catalog.SortOption {
	opt, err := catalog.ParseSortOption(a.cfg.DefaultSort)
	if err != nil {
		logger.Log.Warnw("Invalid DEFAULT_SORT, using score", zap.String("value", a.cfg.DefaultSort), zap.Error(err))
		return catalog.SortScore
	}
	return opt
}

// matchCategory resolves a user-typed category against the known ones, ignoring case.
func matchCategory(categories []string, want string) (string, bool) {
	if want == "" {
		return catalog.AllCategories, true
	}
	for _, c := range categories {
		if strings.EqualFold(c, want) {
			return c, true
		}
	}
	return "", false
}
