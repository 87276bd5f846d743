package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/avconv/internal/api/models"
	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/events"
	"github.com/smazurov/avconv/internal/logging"
	"github.com/smazurov/avconv/internal/metrics"
	"github.com/smazurov/avconv/internal/types"
)

func (s *Server) registerCompileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "compile",
		Method:      http.MethodPost,
		Path:        "/api/compile",
		Summary:     "Compile",
		Description: "Compile per-stream codec requests into ffmpeg arguments. Invalid options never fail the request; they are dropped or replaced and reported as diagnostics.",
		Tags:        []string{"compile"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(ctx context.Context, input *models.CompileRequest) (*models.CompileResponse, error) {
		collector, sink := s.requestSink()
		res, err := s.codecs.CompileJob(input.Body, sink)
		s.recordJob(ctx, input.Body, "", res, err)
		if err != nil {
			return nil, compileError(err)
		}

		return &models.CompileResponse{
			Body: models.CompileData{
				JobResult:   res,
				Args:        res.Args(),
				Diagnostics: nonNil(collector.Diagnostics()),
			},
		}, nil
	})
}

// requestSink returns a collector for the response and a sink fanning out to
// it, the log, the metrics and the event bus.
func (s *Server) requestSink() (*types.Collector, types.DiagnosticSink) {
	collector := &types.Collector{}
	sinks := types.MultiSink{
		collector,
		logging.NewDiagnosticSink(logging.GetLogger("encoders")),
		metrics.DiagnosticSink(),
	}
	if s.eventBus != nil {
		sinks = append(sinks, s.eventBus.DiagnosticSink())
	}
	return collector, sinks
}

// recordJob counts and publishes the outcome of every stream of job. Streams
// after a failed one were never compiled and are skipped.
func (s *Server) recordJob(ctx context.Context, job encoders.Job, profile string, res encoders.JobResult, err error) {
	var failed *encoders.StreamError
	errors.As(err, &failed)

	for _, kind := range types.StreamKinds {
		req := job.Request(kind)
		if req == nil {
			continue
		}

		ev := events.CompiledEvent{
			RequestID: RequestID(ctx),
			Kind:      kind,
			Codec:     req.Codec,
			Profile:   profile,
			Timestamp: events.Now(),
		}
		if failed != nil && failed.Kind == kind {
			metrics.RecordCompile(kind, req.Codec, failed)
			ev.Result = metrics.ResultError
			ev.Error = failed.Err.Error()
			s.publish(ev)
			return
		}
		if err != nil && failed == nil {
			return
		}

		metrics.RecordCompile(kind, req.Codec, nil)
		ev.Result = metrics.ResultOK
		ev.Args = res.Stream(kind)
		s.publish(ev)
	}
}

func (s *Server) publish(ev events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ev)
	}
}

// compileError maps compiler failures to HTTP errors.
func compileError(err error) error {
	switch {
	case errors.Is(err, encoders.ErrUnknownCodec), errors.Is(err, encoders.ErrInvalidCodec):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("compile failed", err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
