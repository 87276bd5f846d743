package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/avconv/internal/events"
)

// registerSSERoutes registers the compiler event stream. Without an event
// bus the route is not registered.
func (s *Server) registerSSERoutes() {
	if s.eventBus == nil {
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of compilations, diagnostics and profile reloads",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"compiled":          events.CompiledEvent{},
		"diagnostic":        events.DiagnosticEvent{},
		"profiles-reloaded": events.ProfilesReloadedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 32)
		unsubscribers := []func(){
			events.SubscribeToChannel[events.CompiledEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.DiagnosticEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ProfilesReloadedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
