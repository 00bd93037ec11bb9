package company

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is a local code → display name map.
type Table map[string]string

// LoadTable reads a names table. The file may be JSON (as written by the
// stock-list builder) or YAML; both decode as a flat string map.
// A missing file yields an empty table so the remote fallback can still work.
func LoadTable(path string) (Table, error) {
	if path == "" {
		return Table{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("read names table: %w", err)
	}
	t := Table{}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode names table %s: %w", path, err)
	}
	return t, nil
}

// GetCompanyName implements ledger.NameResolver.
func (t Table) GetCompanyName(_ context.Context, code string) (string, bool) {
	name, ok := t[strings.TrimSpace(code)]
	return name, ok && name != ""
}
