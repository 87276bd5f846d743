package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/avconv/cmd"
	"github.com/smazurov/avconv/internal/api"
	"github.com/smazurov/avconv/internal/config"
	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/events"
	"github.com/smazurov/avconv/internal/logging"
	"github.com/smazurov/avconv/internal/profiles"
	"github.com/smazurov/avconv/internal/systemd"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Address to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Profiles settings
	ProfilesFile     string `help:"Encoding profiles file" default:"profiles.toml" toml:"profiles.file" env:"PROFILES_FILE"`
	ProfilesWatch    bool   `help:"Reload profiles when the file changes" default:"true" toml:"profiles.watch" env:"PROFILES_WATCH"`
	ProfilesWritable bool   `help:"Allow saving and deleting profiles over the API" default:"false" toml:"profiles.writable" env:"PROFILES_WRITABLE"`

	// Observability settings
	MetricsEnabled bool `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username (empty disables auth)" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingEncoders string `help:"Encoders logging level" default:"info" toml:"logging.modules.encoders" env:"LOGGING_ENCODERS"`
	LoggingProfiles string `help:"Profiles logging level" default:"info" toml:"logging.modules.profiles" env:"LOGGING_PROFILES"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.modules.api" env:"LOGGING_API"`
	LoggingHTTP     string `help:"HTTP request logging level" default:"info" toml:"logging.modules.http" env:"LOGGING_HTTP"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:       opts.LoggingLevel,
			Format:      opts.LoggingFormat,
			HistorySize: config.LoadLoggingConfig(opts.Config).HistorySize,
			Modules: map[string]string{
				"encoders": opts.LoggingEncoders,
				"profiles": opts.LoggingProfiles,
				"api":      opts.LoggingAPI,
				"http":     opts.LoggingHTTP,
			},
		})
		logger := logging.GetLogger("main")

		eventBus := events.New()
		codecs := encoders.Default()
		profileRegistry := profiles.NewRegistry(codecs)
		notifier := systemd.NewNotifier(logging.GetLogger("systemd"))

		serverOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Codecs:       codecs,
			Profiles:     profileRegistry,
			EventBus:     eventBus,
			Metrics:      opts.MetricsEnabled,
		}
		if opts.ProfilesWritable {
			serverOpts.ProfileStore = profiles.NewStore(opts.ProfilesFile)
		}
		server := api.NewServer(serverOpts)

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			loadProfiles(logger, profileRegistry, eventBus, opts.ProfilesFile)

			if opts.ProfilesWatch {
				watcher := config.NewWatcher(opts.ProfilesFile, profiles.LoadFile, logging.GetLogger("profiles"),
					config.WithErrorHandler[map[string]profiles.Profile](func(err error) {
						logger.Warn("Keeping previous profiles", "error", err)
					}),
				)
				watcher.OnReload(func(loaded map[string]profiles.Profile) {
					notifier.Reloading()
					installProfiles(logger, profileRegistry, eventBus, opts.ProfilesFile, loaded)
					notifier.Ready()
				})
				go func() {
					if err := watcher.Run(ctx); err != nil {
						logger.Warn("Profiles watcher unavailable", "path", opts.ProfilesFile, "error", err)
					}
				}()
			}

			go notifier.RunWatchdog(ctx)
			notifier.Status(fmt.Sprintf("%d profiles, listening on %s", len(profileRegistry.Names()), opts.Port))
			notifier.Ready()

			if startErr := server.Start(opts.Port); startErr != nil {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			notifier.Stopping()
			cancel()

			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if stopErr := server.Stop(stopCtx); stopErr != nil && !errors.Is(stopErr, context.DeadlineExceeded) {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
		})
	})

	cli.Root().Use = "avconv"
	cli.Root().Short = "Codec option compiler for ffmpeg"
	cli.Root().AddCommand(
		cmd.CreateCompileCmd(),
		cmd.CreateCodecsCmd(),
		cmd.CreateProfileCmd(),
		cmd.CreateVersionCmd(),
	)

	cli.Run()
}

func loadProfiles(logger *slog.Logger, reg *profiles.Registry, bus *events.Bus, path string) {
	loaded, err := profiles.LoadFile(path)
	if err != nil {
		logger.Warn("Failed to load profiles", "path", path, "error", err)
		return
	}
	installProfiles(logger, reg, bus, path, loaded)
}

func installProfiles(logger *slog.Logger, reg *profiles.Registry, bus *events.Bus, path string, loaded map[string]profiles.Profile) {
	if err := reg.Replace(loaded); err != nil {
		logger.Warn("Some profiles were skipped", "path", path, "error", err)
	}
	names := reg.Names()
	logger.Info("Profiles installed", "path", path, "count", len(names))
	bus.Publish(events.ProfilesReloadedEvent{Path: path, Profiles: names, Timestamp: events.Now()})
}
