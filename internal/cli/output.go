package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// parseFormat validates a --format flag value.
func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// Summary reports the stage snapshot sizes after a command has run.
type Summary struct {
	CheckedAt time.Time `json:"checked_at"`
	Links     int       `json:"links"`
	Events    int       `json:"events"`
}

// WriteOutput writes the summary in the specified format
func WriteOutput(w io.Writer, s *Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case FormatText:
		fmt.Fprintf(w, "Links discovered: %d\n", s.Links)
		fmt.Fprintf(w, "Events parsed: %d\n", s.Events)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
