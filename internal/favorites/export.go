package favorites

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes saved songs to w in the given format.
func Export(w io.Writer, saved []Saved, format string) error {
	if saved == nil {
		saved = []Saved{}
	}
	switch format {
	case FormatYAML, "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(saved); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(saved)
	default:
		return fmt.Errorf("unknown export format %q (use yaml or json)", format)
	}
}
