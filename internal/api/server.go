// Package api serves the codec compiler over HTTP.
package api

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/avconv/internal/api/models"
	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/events"
	"github.com/smazurov/avconv/internal/logging"
	"github.com/smazurov/avconv/internal/metrics/exporters"
	"github.com/smazurov/avconv/internal/profiles"
	"github.com/smazurov/avconv/internal/version"
)

const authRealm = `Basic realm="avconv API"`

// Options configures a Server.
type Options struct {
	AuthUsername string
	AuthPassword string
	// Codecs defaults to the built-in catalogue.
	Codecs *encoders.Registry
	// Profiles may be nil; profile routes then report no profiles.
	Profiles *profiles.Registry
	// ProfileStore enables the profile write routes. Writes are installed
	// into Profiles after saving.
	ProfileStore profiles.Store
	// EventBus may be nil; events are then not published.
	EventBus *events.Bus
	// Metrics mounts the Prometheus handler at /metrics.
	Metrics bool
}

// Server is the huma API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	codecs     *encoders.Registry
	profiles   *profiles.Registry
	store      profiles.Store
	storeMu    sync.Mutex
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer creates the API and registers every route.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("avconv API", version.String())
	config.Info.Description = "Compiles codec option sets into ffmpeg arguments"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	codecs := opts.Codecs
	if codecs == nil {
		codecs = encoders.Default()
	}
	profileRegistry := opts.Profiles
	if profileRegistry == nil {
		profileRegistry = profiles.NewRegistry(codecs)
	}

	s := &Server{
		api:      api,
		mux:      mux,
		codecs:   codecs,
		profiles: profileRegistry,
		store:    opts.ProfileStore,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(RequestIDMiddleware)
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(s.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.Metrics {
		exporters.Mount(mux)
	}

	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// API returns the huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Start listens on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting avconv API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down, waiting for requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: version.Get()}, nil
	})

	s.registerCodecRoutes()
	s.registerCompileRoutes()
	s.registerProfileRoutes()
	if s.store != nil {
		s.registerProfileWriteRoutes()
	}
	s.registerLogRoutes()
	s.registerSSERoutes()
}

// withAuth returns security requirement for basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}

// basicAuthMiddleware enforces credentials on operations that declare
// security. SSE clients may pass base64 credentials in the auth query
// parameter.
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	reject := func(ctx huma.Context, msg string, errs ...error) {
		ctx.SetHeader("WWW-Authenticate", authRealm)
		huma.WriteErr(s.api, ctx, http.StatusUnauthorized, msg, errs...)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		if op := ctx.Operation(); op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		var encoded string
		if header := ctx.Header("Authorization"); header != "" {
			const prefix = "Basic "
			if !strings.HasPrefix(header, prefix) {
				reject(ctx, "Invalid authentication type")
				return
			}
			encoded = header[len(prefix):]
		} else {
			encoded = ctx.Query("auth")
		}
		if encoded == "" {
			reject(ctx, "Authentication required")
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			reject(ctx, "Invalid credentials format", err)
			return
		}
		user, pass, ok := strings.Cut(string(decoded), ":")
		if !ok {
			reject(ctx, "Invalid credentials format")
			return
		}
		if user != username || pass != password {
			reject(ctx, "Invalid credentials")
			return
		}

		next(ctx)
	}
}
