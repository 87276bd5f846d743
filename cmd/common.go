// Package cmd holds the avconv subcommands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/smazurov/avconv/internal/types"
)

// parseAssignments turns key=value arguments into an options map. Values
// stay strings; the compiler coerces them to the declared types.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out[key] = value
	}
	return out, nil
}

// writerSink prints diagnostics to w, one per line.
func writerSink(w io.Writer) types.DiagnosticSink {
	return types.SinkFunc(func(d types.Diagnostic) {
		fmt.Fprintln(w, formatDiagnostic(d))
	})
}

func formatDiagnostic(d types.Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s/%s", d.Severity, d.Kind, d.Codec)
	if d.Option != "" {
		fmt.Fprintf(&b, " %s", d.Option)
		if d.Value != "" {
			fmt.Fprintf(&b, "=%s", d.Value)
		}
	}
	fmt.Fprintf(&b, ": %s", d.Message)
	if d.Default != "" {
		fmt.Fprintf(&b, " (using %s)", d.Default)
	}
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
