package encoders

import (
	"fmt"

	"github.com/smazurov/avconv/internal/types"
)

// Compile looks up req.Codec for kind in the default registry and compiles
// it.
func Compile(kind types.StreamKind, req Request, sink types.DiagnosticSink) ([]string, error) {
	c, err := Lookup(kind, req.Codec)
	if err != nil {
		return nil, err
	}
	return c.Compile(req, sink)
}

// Job groups the per-stream requests of one encode. Nil streams are left to
// ffmpeg's defaults.
type Job struct {
	Audio    *Request `json:"audio,omitempty" toml:"audio,omitempty"`
	Video    *Request `json:"video,omitempty" toml:"video,omitempty"`
	Subtitle *Request `json:"subtitle,omitempty" toml:"subtitle,omitempty"`
}

// Request returns the request of kind.
func (j Job) Request(kind types.StreamKind) *Request {
	switch kind {
	case types.StreamAudio:
		return j.Audio
	case types.StreamVideo:
		return j.Video
	case types.StreamSubtitle:
		return j.Subtitle
	}
	return nil
}

// JobResult holds the compiled arguments of each stream.
type JobResult struct {
	Audio    []string `json:"audio,omitempty"`
	Video    []string `json:"video,omitempty"`
	Subtitle []string `json:"subtitle,omitempty"`
}

// Args concatenates the stream arguments in audio, video, subtitle order.
func (r JobResult) Args() []string {
	out := make([]string, 0, len(r.Audio)+len(r.Video)+len(r.Subtitle))
	out = append(out, r.Audio...)
	out = append(out, r.Video...)
	out = append(out, r.Subtitle...)
	return out
}

// Stream returns the arguments compiled for kind.
func (r JobResult) Stream(kind types.StreamKind) []string {
	switch kind {
	case types.StreamAudio:
		return r.Audio
	case types.StreamVideo:
		return r.Video
	case types.StreamSubtitle:
		return r.Subtitle
	}
	return nil
}

func (r *JobResult) set(kind types.StreamKind, args []string) {
	switch kind {
	case types.StreamAudio:
		r.Audio = args
	case types.StreamVideo:
		r.Video = args
	case types.StreamSubtitle:
		r.Subtitle = args
	}
}

// StreamError reports the stream of a job that failed to compile.
type StreamError struct {
	Kind  types.StreamKind
	Codec string
	Err   error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("compile %s codec %q: %v", e.Kind, e.Codec, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// CompileJob compiles every stream of job against r. The first hard failure
// aborts the job with a *StreamError.
func (r *Registry) CompileJob(job Job, sink types.DiagnosticSink) (JobResult, error) {
	var res JobResult
	for _, kind := range types.StreamKinds {
		req := job.Request(kind)
		if req == nil {
			continue
		}
		c, err := r.Lookup(kind, req.Codec)
		if err == nil {
			var args []string
			if args, err = c.Compile(*req, sink); err == nil {
				res.set(kind, args)
				continue
			}
		}
		return JobResult{}, &StreamError{Kind: kind, Codec: req.Codec, Err: err}
	}
	return res, nil
}

// CompileJob compiles job against the default registry.
func CompileJob(job Job, sink types.DiagnosticSink) (JobResult, error) {
	return defaultRegistry.CompileJob(job, sink)
}
