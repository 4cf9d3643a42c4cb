package app

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// outputFormat resolves --format and --json into one format name.
func outputFormat() (string, error) {
	if flagJSON {
		return formatJSON, nil
	}
	switch flagFormat {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return flagFormat, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, or yaml)", flagFormat)
	}
}

// encode writes v to w as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
}
