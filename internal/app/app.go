// Package app wires configuration, logging, storage and the journal into a
// ready engine and facade.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"checkline/internal/config"
	"checkline/internal/engine"
	"checkline/internal/facade"
	"checkline/internal/journal"
	"checkline/internal/store"
)

// Overrides are per-invocation settings that win over checkline.yml.
type Overrides struct {
	ConfigPath string
	StorePath  string
	OperatorID string
	LogLevel   string
	NoJournal  bool
}

// App is an opened workspace.
type App struct {
	Workspace string
	Config    *config.Config
	Log       *log.Logger
	Store     store.File
	Journal   *journal.Journal
	Engine    *engine.Engine
}

// Open loads config for the workspace, configures logging and opens the
// document store and, when enabled, the journal. The engine is not loaded.
func Open(workspace string, ov Overrides) (*App, error) {
	cfg, err := loadConfig(workspace, ov.ConfigPath)
	if err != nil {
		return nil, err
	}
	if ov.StorePath != "" {
		cfg.Store.Path = ov.StorePath
	}
	if ov.OperatorID != "" {
		cfg.Operator.ID = ov.OperatorID
	}
	if ov.LogLevel != "" {
		cfg.Log.Level = ov.LogLevel
	}
	if ov.NoJournal {
		cfg.Journal.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	a := &App{
		Workspace: workspace,
		Config:    cfg,
		Log:       logger,
		Store:     store.NewFile(config.Resolve(workspace, cfg.Store.Path)),
	}
	a.Engine = engine.New(a.Store)
	a.Engine.Log = logger.WithField("component", "engine")
	if cfg.Journal.Enabled {
		path := config.Resolve(workspace, cfg.Journal.Path)
		j, err := journal.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open journal %s: %w", path, err)
		}
		a.Journal = j
		a.Engine.Recorder = j
	}
	logger.WithFields(log.Fields{
		"store":   a.Store.Location(),
		"journal": cfg.Journal.Enabled,
	}).Debug("workspace opened")
	return a, nil
}

func loadConfig(workspace, path string) (*config.Config, error) {
	if path != "" {
		return config.FromFile(path)
	}
	return config.LoadOptional(workspace)
}

// NewLogger builds a logrus logger from the log section of the config.
func NewLogger(cfg *config.Config, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}
	return logger, nil
}

// Load reads the document into the engine.
func (a *App) Load(ctx context.Context) error {
	return a.Engine.Load(ctx)
}

// Facade returns a facade over the engine using the configured display limits.
func (a *App) Facade() *facade.Facade {
	opts := facade.Options{
		Bootstrap: engine.BootstrapOptions{
			OperatorID:   a.Config.Operator.ID,
			BusinessName: a.Config.Bootstrap.BusinessName,
			ShortName:    a.Config.Bootstrap.ShortName,
		},
		ListLimit:     a.Config.Display.ListLimit,
		OverviewLimit: a.Config.Display.OverviewLimit,
		Log:           a.Log.WithField("component", "facade"),
	}
	if a.Journal != nil {
		opts.History = a.Journal
	}
	return facade.New(a.Engine, opts)
}

// Bootstrap makes sure the document holds at least one business, saving
// when one is created.
func (a *App) Bootstrap(ctx context.Context) error {
	_, created, err := a.Engine.Bootstrap(engine.BootstrapOptions{
		OperatorID:   a.Config.Operator.ID,
		BusinessName: a.Config.Bootstrap.BusinessName,
		ShortName:    a.Config.Bootstrap.ShortName,
	})
	if err != nil || !created {
		return err
	}
	return a.Engine.Save(ctx)
}

func (a *App) Close() error {
	if a.Journal != nil {
		return a.Journal.Close()
	}
	return nil
}
