package storage

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jthorne/taskdeck/pkg/models"
)

// exportFile wraps a snapshot with a schema version for YAML export.
type exportFile struct {
	Version  string          `yaml:"version"`
	Database models.Database `yaml:"database"`
}

// exportVersion is the current export schema version.
const exportVersion = "1.0"

// EncodeYAML renders the full snapshot as versioned YAML for export.
func EncodeYAML(db models.Database) ([]byte, error) {
	data, err := yaml.Marshal(&exportFile{Version: exportVersion, Database: db})
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeYAML parses a previously exported snapshot. Collections missing
// from the document come back as empty, never nil.
func DecodeYAML(data []byte) (models.Database, error) {
	var ef exportFile
	if err := yaml.Unmarshal(data, &ef); err != nil {
		return models.Database{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	db := ef.Database
	if db.Tasks == nil {
		db.Tasks = []models.Task{}
	}
	if db.Users == nil {
		db.Users = []models.User{}
	}
	if db.Projects == nil {
		db.Projects = []models.Project{}
	}
	return db, nil
}
