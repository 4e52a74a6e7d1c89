package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a project import file. It seeds
// a project with documents and the transitions each document went through.
type ImportSchema struct {
	Project   ProjectImport    `json:"project" yaml:"project"`
	Documents []DocumentImport `json:"documents" yaml:"documents"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID string `json:"short_id" yaml:"short_id"`
	Name    string `json:"name" yaml:"name"`
}

// DocumentImport defines a document and its transition history. State is the
// state the document was created in (default NEW). Times accept YYYY-MM-DD
// or RFC3339.
type DocumentImport struct {
	Name        string             `json:"name" yaml:"name"`
	State       string             `json:"state,omitempty" yaml:"state,omitempty"`
	CreatedAt   string             `json:"created_at" yaml:"created_at"`
	Transitions []TransitionImport `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// TransitionImport moves the document to To at At.
type TransitionImport struct {
	To string `json:"to" yaml:"to"`
	At string `json:"at" yaml:"at"`
}

// LoadImportSchema reads a project import file. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var schema ImportSchema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
