package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/avconv/internal/api/models"
	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/metrics"
	"github.com/smazurov/avconv/internal/types"
)

func (s *Server) registerCodecRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-codecs",
		Method:      http.MethodGet,
		Path:        "/api/codecs",
		Summary:     "List Codecs",
		Description: "List every supported codec with its declared options",
		Tags:        []string{"codecs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.CodecsResponse, error) {
		var infos []encoders.CodecInfo
		for _, kind := range types.StreamKinds {
			infos = append(infos, s.codecInfos(kind)...)
		}
		return &models.CodecsResponse{Body: models.CodecsData{Codecs: infos, Count: len(infos)}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-codecs-by-kind",
		Method:      http.MethodGet,
		Path:        "/api/codecs/{kind}",
		Summary:     "List Codecs By Kind",
		Description: "List the codecs of one stream kind",
		Tags:        []string{"codecs"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.CodecsByKindRequest) (*models.CodecsResponse, error) {
		kind, err := types.ParseStreamKind(input.Kind)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		infos := s.codecInfos(kind)
		return &models.CodecsResponse{Body: models.CodecsData{Codecs: infos, Count: len(infos)}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-codec",
		Method:      http.MethodGet,
		Path:        "/api/codecs/{kind}/{codec}",
		Summary:     "Get Codec",
		Description: "Describe one codec and its declared options",
		Tags:        []string{"codecs"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 422},
	}, func(_ context.Context, input *models.CodecRequest) (*models.CodecResponse, error) {
		kind, err := types.ParseStreamKind(input.Kind)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		c, err := s.codecs.Lookup(kind, input.Codec)
		if errors.Is(err, encoders.ErrUnknownCodec) {
			return nil, huma.Error404NotFound(err.Error())
		}
		if err != nil {
			return nil, err
		}
		return &models.CodecResponse{Body: c.Info()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-ffmpeg-options",
		Method:      http.MethodGet,
		Path:        "/api/options",
		Summary:     "Get FFmpeg Input Options",
		Description: "List the ffmpeg input flags profiles may enable, with conflict information",
		Tags:        []string{"configuration"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.OptionsResponse, error) {
		return &models.OptionsResponse{Body: models.OptionsData{Options: ffmpeg.AllOptions}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Compile Statistics",
		Description: "Requests, errors and diagnostics per codec since start",
		Tags:        []string{"system"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.StatsResponse, error) {
		return &models.StatsResponse{Body: models.StatsData{Codecs: metrics.GetAllCodecStats()}}, nil
	})
}

func (s *Server) codecInfos(kind types.StreamKind) []encoders.CodecInfo {
	codecs := s.codecs.Codecs(kind)
	infos := make([]encoders.CodecInfo, len(codecs))
	for i, c := range codecs {
		infos[i] = c.Info()
	}
	return infos
}
