// Package output serializes catalogs and renders collect-run diagnostics.
// The core stays serialization-agnostic; everything format-specific lives
// here.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/kalusto/pkg/types"
)

// Formatter serializes catalogs and reports into one output format.
type Formatter interface {
	FormatCatalog(catalog *types.Catalog) ([]byte, error)
	FormatReport(report *types.CollectReport) ([]byte, error)
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "json":
		return &JSONFormatter{}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// JSONFormatter emits indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatCatalog(catalog *types.Catalog) ([]byte, error) {
	return json.MarshalIndent(catalog, "", "  ")
}

func (f *JSONFormatter) FormatReport(report *types.CollectReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// YAMLFormatter emits YAML. Tri-state feature flags come out as true or an
// explicit null, which is the point of the *bool representation.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatCatalog(catalog *types.Catalog) ([]byte, error) {
	return yaml.Marshal(catalog)
}

func (f *YAMLFormatter) FormatReport(report *types.CollectReport) ([]byte, error) {
	return yaml.Marshal(report)
}

// Write sends data to path, or to w when path is empty.
func Write(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
