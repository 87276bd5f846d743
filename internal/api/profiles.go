package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/avconv/internal/api/models"
	"github.com/smazurov/avconv/internal/events"
	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/profiles"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-profiles",
		Method:      http.MethodGet,
		Path:        "/api/profiles",
		Summary:     "List Profiles",
		Description: "List the loaded encoding profiles",
		Tags:        []string{"profiles"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.ProfilesResponse, error) {
		list := s.profiles.List()
		return &models.ProfilesResponse{Body: models.ProfilesData{Profiles: list, Count: len(list)}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/profiles/{name}",
		Summary:     "Get Profile",
		Description: "Get one encoding profile",
		Tags:        []string{"profiles"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *models.ProfileRequest) (*models.ProfileResponse, error) {
		p, err := s.profiles.Get(input.Name)
		if err != nil {
			return nil, profileError(err)
		}
		return &models.ProfileResponse{Body: p}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "profile-command",
		Method:      http.MethodPost,
		Path:        "/api/profiles/{name}/command",
		Summary:     "Build Profile Command",
		Description: "Compile a profile into a complete ffmpeg command for the given files",
		Tags:        []string{"profiles"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 422},
	}, func(ctx context.Context, input *models.ProfileCommandRequest) (*models.ProfileCommandResponse, error) {
		p, err := s.profiles.Get(input.Name)
		if err != nil {
			return nil, profileError(err)
		}

		collector, sink := s.requestSink()
		cmd, err := profiles.Compile(s.codecs, p, profiles.Target{
			Input:  input.Body.Input,
			Output: input.Body.Output,
			Source: input.Body.Source,
		}, sink)
		s.recordJob(ctx, p.Job(), p.Name, cmd.Streams, err)
		if err != nil {
			return nil, compileError(err)
		}

		return &models.ProfileCommandResponse{
			Body: models.ProfileCommandData{
				Command:     cmd,
				CommandLine: ffmpeg.CommandLine(cmd.Argv),
				Diagnostics: nonNil(collector.Diagnostics()),
			},
		}, nil
	})
}

func (s *Server) registerProfileWriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "put-profile",
		Method:      http.MethodPut,
		Path:        "/api/profiles/{name}",
		Summary:     "Save Profile",
		Description: "Create or replace an encoding profile and persist it to the profiles file",
		Tags:        []string{"profiles"},
		Security:    withAuth(),
		Errors:      []int{401, 422, 500},
	}, func(_ context.Context, input *models.ProfilePutRequest) (*models.ProfileResponse, error) {
		p := input.Body
		p.Name = input.Name
		if err := p.Validate(s.codecs); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}

		err := s.updateStore(func(store profiles.Store) error {
			return store.Put(p)
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to save profile", err)
		}
		s.logger.Info("Profile saved", "profile", p.Name, "path", s.store.Path())
		return &models.ProfileResponse{Body: p}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-profile",
		Method:        http.MethodDelete,
		Path:          "/api/profiles/{name}",
		Summary:       "Delete Profile",
		Description:   "Remove an encoding profile from the profiles file",
		Tags:          []string{"profiles"},
		Security:      withAuth(),
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{401, 404, 500},
	}, func(_ context.Context, input *models.ProfileRequest) (*struct{}, error) {
		err := s.updateStore(func(store profiles.Store) error {
			return store.Remove(input.Name)
		})
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return nil, huma.Error404NotFound(err.Error())
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to delete profile", err)
		}
		s.logger.Info("Profile deleted", "profile", input.Name, "path", s.store.Path())
		return nil, nil
	})
}

// updateStore reloads the store, applies change and installs the result
// into the registry. A running file watcher will reload the same contents.
func (s *Server) updateStore(change func(profiles.Store) error) error {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	if err := s.store.Load(); err != nil {
		return err
	}
	if err := change(s.store); err != nil {
		return err
	}

	if err := s.profiles.Replace(profiles.Profiles(s.store)); err != nil {
		s.logger.Warn("Some stored profiles are invalid", "path", s.store.Path(), "error", err)
	}
	s.publish(events.ProfilesReloadedEvent{
		Path:      s.store.Path(),
		Profiles:  s.profiles.Names(),
		Timestamp: events.Now(),
	})
	return nil
}

func profileError(err error) error {
	if errors.Is(err, profiles.ErrProfileNotFound) {
		return huma.Error404NotFound(err.Error())
	}
	return huma.Error500InternalServerError("profile lookup failed", err)
}
