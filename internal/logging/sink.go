package logging

import (
	"log/slog"

	"github.com/smazurov/avconv/internal/types"
)

// NewDiagnosticSink returns a sink that logs compiler diagnostics.
// Warnings go out at warn level, dropped options at debug.
func NewDiagnosticSink(logger *slog.Logger) types.DiagnosticSink {
	return types.SinkFunc(func(d types.Diagnostic) {
		attrs := []any{
			"kind", string(d.Kind),
			"codec", d.Codec,
			"option", d.Option,
		}
		if d.Value != "" {
			attrs = append(attrs, "value", d.Value)
		}
		if d.Default != "" {
			attrs = append(attrs, "default", d.Default)
		}

		if d.Severity == types.SeverityWarning {
			logger.Warn(d.Message, attrs...)
			return
		}
		logger.Debug(d.Message, attrs...)
	})
}
