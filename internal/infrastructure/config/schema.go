package config

import (
	_ "embed"
	"errors"
	"fmt"
)

//go:embed default.toml
var defaultSchemaTOML string

//go:embed template.toml
var configTemplate string

// DefaultSchema parses the built-in default schema through the same value
// model as disk files, stamped with the reserved defaults index.
func DefaultSchema(prefix []string) (*ParsedFile, error) {
	parsed, traversal, err := ParseFile(defaultSchemaTOML, prefix, defaultsIndex)
	if err != nil {
		return nil, fmt.Errorf("parsing built-in defaults: %w", err)
	}
	if traversal == TraversalPruned {
		return nil, errors.New("built-in defaults nest beyond the table depth limit")
	}
	return parsed, nil
}
