// Package output renders command results as plain text, YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// globalFormat is set by the root command's --output flag.
var globalFormat = FormatText

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatYAML, FormatJSON:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, yaml or json)", s)
	}
}

// SetFormat sets the global output format.
func SetFormat(f Format) {
	globalFormat = f
}

// GetFormat returns the current global output format.
func GetFormat() Format {
	return globalFormat
}

// IsStructured reports whether results should be printed as YAML or JSON
// instead of human-readable text.
func IsStructured() bool {
	return globalFormat == FormatJSON || globalFormat == FormatYAML
}

// Print writes data to stdout in the configured structured format. In text
// mode it falls back to YAML.
func Print(data any) error {
	f := globalFormat
	if f == FormatText {
		f = FormatYAML
	}
	return To(os.Stdout, f, data)
}

// To writes data to w in the given format. Text format writes strings and
// fmt.Stringer values as-is.
func To(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case FormatText:
		switch v := data.(type) {
		case string:
			_, err := io.WriteString(w, v)
			return err
		case fmt.Stringer:
			_, err := io.WriteString(w, v.String())
			return err
		default:
			_, err := fmt.Fprintf(w, "%+v\n", v)
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
