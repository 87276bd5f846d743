// Package profiles stores named encoding profiles and compiles them into
// complete ffmpeg command lines.
package profiles

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/types"
)

var (
	// ErrProfileNotFound is returned when no profile has the requested name.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidProfile wraps every validation failure of a profile.
	ErrInvalidProfile = errors.New("invalid profile")
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,63}$`)

// Profile is a named encoding job with container settings.
type Profile struct {
	Name         string              `toml:"-" yaml:"-" json:"name,omitempty" doc:"Profile name, taken from the table key or URL"`
	Description  string              `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty" doc:"Free text description"`
	Format       string              `toml:"format,omitempty" yaml:"format,omitempty" json:"format,omitempty" example:"mp4" doc:"Output container passed to -f"`
	InputOptions []ffmpeg.OptionType `toml:"input_options,omitempty" yaml:"input_options,omitempty" json:"input_options,omitempty" doc:"ffmpeg input behaviour flags"`
	Audio        *encoders.Request   `toml:"audio,omitempty" yaml:"audio,omitempty" json:"audio,omitempty" doc:"Audio stream request"`
	Video        *encoders.Request   `toml:"video,omitempty" yaml:"video,omitempty" json:"video,omitempty" doc:"Video stream request"`
	Subtitle     *encoders.Request   `toml:"subtitle,omitempty" yaml:"subtitle,omitempty" json:"subtitle,omitempty" doc:"Subtitle stream request"`
}

// Job returns the per-stream requests of p.
func (p Profile) Job() encoders.Job {
	return encoders.Job{Audio: p.Audio, Video: p.Video, Subtitle: p.Subtitle}
}

// Validate checks the name, the codec ids against reg and the input options.
// Codec options are not checked here; the compiler reports them as
// diagnostics.
func (p Profile) Validate(reg *encoders.Registry) error {
	if !namePattern.MatchString(p.Name) {
		return fmt.Errorf("%w: name %q", ErrInvalidProfile, p.Name)
	}
	job := p.Job()
	for _, kind := range types.StreamKinds {
		req := job.Request(kind)
		if req == nil {
			continue
		}
		if _, err := reg.Lookup(kind, req.Codec); err != nil {
			return fmt.Errorf("%w %q: %s: %w", ErrInvalidProfile, p.Name, kind, err)
		}
	}
	if err := ffmpeg.ValidateOptions(p.InputOptions); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidProfile, p.Name, err)
	}
	return nil
}

// Source describes the input media. Zero fields are unknown.
type Source struct {
	Width  int `json:"width,omitempty" doc:"Source width in pixels"`
	Height int `json:"height,omitempty" doc:"Source height in pixels"`
	Rotate int `json:"rotate,omitempty" doc:"Source rotation in degrees"`
}

// apply returns a copy of req with the known source fields set as the
// src_width, src_height and src_rotate options.
func (s Source) apply(req *encoders.Request) *encoders.Request {
	if req == nil || (s.Width == 0 && s.Height == 0 && s.Rotate == 0) {
		return req
	}
	opts := make(map[string]any, len(req.Options)+3)
	for k, v := range req.Options {
		opts[k] = v
	}
	if s.Width > 0 {
		opts["src_width"] = s.Width
	}
	if s.Height > 0 {
		opts["src_height"] = s.Height
	}
	if s.Rotate != 0 {
		opts["src_rotate"] = s.Rotate
	}
	return &encoders.Request{Codec: req.Codec, Options: opts}
}

// Target names the files of one invocation.
type Target struct {
	Input  string
	Output string
	Source Source
}

// Command is a compiled profile.
type Command struct {
	Profile string             `json:"profile" doc:"Profile name"`
	Streams encoders.JobResult `json:"streams" doc:"Per-stream arguments"`
	Argv    []string           `json:"argv" doc:"Complete ffmpeg argument vector"`
}

// Compile compiles p for target using reg.
func Compile(reg *encoders.Registry, p Profile, target Target, sink types.DiagnosticSink) (Command, error) {
	job := p.Job()
	job.Video = target.Source.apply(job.Video)

	streams, err := reg.CompileJob(job, sink)
	if err != nil {
		return Command{}, fmt.Errorf("profile %q: %w", p.Name, err)
	}

	argv, err := ffmpeg.BuildCommand(ffmpeg.Params{
		Input:        target.Input,
		Output:       target.Output,
		Format:       p.Format,
		InputOptions: p.InputOptions,
		Audio:        streams.Audio,
		Video:        streams.Video,
		Subtitle:     streams.Subtitle,
	})
	if err != nil {
		return Command{}, fmt.Errorf("profile %q: %w", p.Name, err)
	}

	return Command{Profile: p.Name, Streams: streams, Argv: argv}, nil
}
