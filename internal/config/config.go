// Package config loads and validates board configuration from a
// .boardconfig YAML file via Viper. Column definitions and WIP limits are
// data, not hardcoded business law.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jthorne/taskdeck/internal/board"
	"github.com/jthorne/taskdeck/pkg/models"
)

// ColumnConfig is one status bucket definition from .boardconfig.
type ColumnConfig struct {
	ID       string
	Status   string
	WIPLimit int
}

// BoardConfig holds all settings read from .boardconfig.
type BoardConfig struct {
	// DataDir is where database.json and the event log live, relative to
	// the base path unless absolute.
	DataDir         string
	Columns         []ColumnConfig
	DefaultPriority models.Priority
	DefaultAssignee string
}

// Manager loads and validates configuration.
type Manager interface {
	Load() (*BoardConfig, error)
	Validate(cfg *BoardConfig) error
}

type viperManager struct {
	basePath string
}

// NewManager creates a Manager that reads .boardconfig from basePath.
func NewManager(basePath string) Manager {
	return &viperManager{basePath: basePath}
}

// defaultConfig mirrors board.DefaultColumns.
func defaultConfig() *BoardConfig {
	cfg := &BoardConfig{
		DataDir:         ".",
		DefaultPriority: models.PriorityMedium,
	}
	for _, c := range board.DefaultColumns() {
		cfg.Columns = append(cfg.Columns, ColumnConfig{
			ID:       c.ID,
			Status:   string(c.Status),
			WIPLimit: c.WIPLimit,
		})
	}
	return cfg
}

// Load reads .boardconfig from the base path. A missing file yields the
// defaults; a malformed one is an error.
func (m *viperManager) Load() (*BoardConfig, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName(".boardconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(m.basePath)

	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("defaults.priority", string(cfg.DefaultPriority))
	v.SetDefault("defaults.assignee", cfg.DefaultAssignee)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .boardconfig: %w", err)
	}

	cfg.DataDir = v.GetString("data_dir")
	cfg.DefaultPriority = models.Priority(v.GetString("defaults.priority"))
	cfg.DefaultAssignee = v.GetString("defaults.assignee")

	// Parse the columns section; when present it replaces the defaults
	// wholesale.
	if raw := v.Get("columns"); raw != nil {
		if colSlice, ok := raw.([]interface{}); ok {
			var columns []ColumnConfig
			for _, item := range colSlice {
				mm, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				col := ColumnConfig{}
				if id, ok := mm["id"].(string); ok {
					col.ID = id
				}
				if status, ok := mm["status"].(string); ok {
					col.Status = status
				}
				switch limit := mm["wip_limit"].(type) {
				case int:
					col.WIPLimit = limit
				case float64:
					col.WIPLimit = int(limit)
				}
				columns = append(columns, col)
			}
			if len(columns) > 0 {
				cfg.Columns = columns
			}
		}
	}

	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (m *viperManager) Validate(cfg *BoardConfig) error {
	if cfg == nil {
		return fmt.Errorf("board configuration is nil")
	}

	var errs []string

	if cfg.DataDir == "" {
		errs = append(errs, "data_dir must not be empty")
	}
	if cfg.DefaultPriority != "" && !models.ValidPriority(cfg.DefaultPriority) {
		errs = append(errs, fmt.Sprintf(
			"defaults.priority %q is invalid, must be one of: low, medium, high",
			cfg.DefaultPriority,
		))
	}

	if len(cfg.Columns) == 0 {
		errs = append(errs, "columns must not be empty")
	}
	seenID := make(map[string]bool)
	seenStatus := make(map[string]bool)
	for _, col := range cfg.Columns {
		if col.ID == "" {
			errs = append(errs, "column id must not be empty")
			continue
		}
		if seenID[col.ID] {
			errs = append(errs, fmt.Sprintf("duplicate column id %q", col.ID))
		}
		seenID[col.ID] = true
		if !models.ValidStatus(models.TaskStatus(col.Status)) {
			errs = append(errs, fmt.Sprintf(
				"column %q status %q is invalid, must be one of: Open, In Progress, Done",
				col.ID, col.Status,
			))
		}
		if seenStatus[col.Status] {
			errs = append(errs, fmt.Sprintf("duplicate column status %q", col.Status))
		}
		seenStatus[col.Status] = true
		if col.WIPLimit < 0 {
			errs = append(errs, fmt.Sprintf(
				"column %q wip_limit %d is invalid, must be non-negative",
				col.ID, col.WIPLimit,
			))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("board config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// BoardColumns converts the configured columns to the engine's column type.
func (cfg *BoardConfig) BoardColumns() []board.Column {
	columns := make([]board.Column, len(cfg.Columns))
	for i, c := range cfg.Columns {
		columns[i] = board.Column{
			ID:       c.ID,
			Status:   models.TaskStatus(c.Status),
			WIPLimit: c.WIPLimit,
		}
	}
	return columns
}
