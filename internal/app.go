// Package internal provides the App struct that wires all components of
// taskdeck together and initializes the CLI layer. The store is an
// explicitly constructed, injected object; there is no package-level
// singleton.
package internal

import (
	"os"
	"path/filepath"

	"github.com/jthorne/taskdeck/internal/board"
	"github.com/jthorne/taskdeck/internal/cli"
	"github.com/jthorne/taskdeck/internal/config"
	"github.com/jthorne/taskdeck/internal/observability"
	"github.com/jthorne/taskdeck/internal/storage"
	"github.com/jthorne/taskdeck/internal/store"
)

// App holds all service dependencies for taskdeck.
type App struct {
	BasePath string

	ConfigMgr config.Manager
	Config    *config.BoardConfig

	Database storage.DatabaseStore
	Store    *store.Store
	Engine   *board.Engine

	EventLog observability.EventLog
}

// NewApp creates and wires all components. basePath is the directory
// holding .boardconfig; the data directory is resolved relative to it.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	app.ConfigMgr = config.NewManager(basePath)
	cfg, err := app.ConfigMgr.Load()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.Validate(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	dataDir := cfg.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(basePath, dataDir)
	}

	app.Database = storage.NewDatabaseStore(dataDir)

	// Observability is best-effort: a log that cannot be opened disables
	// event recording rather than failing startup.
	eventLogPath := filepath.Join(dataDir, ".taskdeck_events.jsonl")
	if log, logErr := observability.NewJSONLEventLog(eventLogPath); logErr == nil {
		app.EventLog = log
	}
	recorder := observability.NewRecorder(app.EventLog)

	if recorder != nil {
		app.Store = store.New(app.Database, recorder)
		app.Engine = board.NewEngine(cfg.BoardColumns(), app.Store, recorder)
	} else {
		app.Store = store.New(app.Database, nil)
		app.Engine = board.NewEngine(cfg.BoardColumns(), app.Store, nil)
	}

	// Wire CLI package-level services.
	cli.BasePath = basePath
	cli.Config = cfg
	cli.Database = app.Database
	cli.Store = app.Store
	cli.Engine = app.Engine
	cli.EventLog = app.EventLog

	return app, nil
}

// Close releases resources held by the App. Safe to call when the event
// log is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines where taskdeck keeps its data: the
// TASKDECK_HOME env var if set, else the nearest ancestor directory
// containing .boardconfig, else the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("TASKDECK_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".boardconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
