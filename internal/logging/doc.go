// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// Records are routed to every available output:
//   - the systemd journal when journald is running
//   - stdout when a terminal, pipe or file is connected
//   - an in-memory history of recent entries served by GET /api/logs
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"encoders": "debug",
//			"api":      "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("profiles")
//	logger.Info("Loaded profiles", "count", n)
//
// Compiler diagnostics can be logged by passing a sink to the encoders package:
//
//	sink := logging.NewDiagnosticSink(logging.GetLogger("encoders"))
//	argv, err := encoders.Compile(types.StreamVideo, req, sink)
//
// # Viewing Logs
//
//	journalctl -t avconv                 # All avconv logs
//	journalctl -t avconv -f              # Follow live
//	journalctl -t avconv -p warning      # Substituted options and worse
//	journalctl -t avconv MODULE=encoders CODEC=h264
//
// # Configuration
//
//	[logging]
//	level = "info"
//	format = "text"
//	history_size = 500
//
//	[logging.modules]
//	encoders = "debug"
//	api = "warn"
package logging
