package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/avconv/internal/api/models"
	"github.com/smazurov/avconv/internal/logging"
)

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Recent log entries kept in memory, oldest first",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		var level slog.Level
		if err := level.UnmarshalText([]byte(input.Level)); err != nil {
			level = slog.LevelDebug
		}
		entries := logging.GetHistory().Recent(input.Limit, level, input.Module)
		return &models.LogsResponse{Body: models.LogsData{Entries: nonNil(entries)}}, nil
	})
}
