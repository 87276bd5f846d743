package encoders

import (
	"errors"
	"fmt"

	"github.com/smazurov/avconv/internal/encoders/validation"
	"github.com/smazurov/avconv/internal/geometry"
	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

var (
	// ErrInvalidCodec is returned when a request names a different codec than
	// the descriptor compiling it.
	ErrInvalidCodec = errors.New("invalid codec name")
	// ErrUnknownCodec is returned when no codec is registered under an id.
	ErrUnknownCodec = errors.New("unknown codec")
)

type mode int

const (
	modeEncode mode = iota
	modeNull
	modeCopy
)

// Plan is the state handed to a codec pre-hook before flags are emitted.
type Plan struct {
	Options  options.Options
	Geometry geometry.Result
	// Filter is the size-related filter fragment (geometry crop, MPEG
	// aspect workaround) placed after any user crop.
	Filter string
}

// Request is an untrusted encoding request for one stream.
type Request struct {
	Codec   string         `json:"codec" toml:"codec" yaml:"codec" doc:"Codec identifier" example:"h264"`
	Options map[string]any `json:"options,omitempty" toml:"options,omitempty" yaml:"options,omitempty" doc:"Codec options"`
}

// Codec describes one supported encoding scheme. Values are immutable once
// registered.
type Codec struct {
	ID          string
	Encoder     string
	Kind        types.StreamKind
	Description string
	Schema      options.Schema

	mode  mode
	rules *validation.RuleSet

	// prepare adjusts the resolved plan before generic emission.
	prepare func(Plan) Plan
	// extra produces codec-specific argument fragments appended last.
	extra func(options.Options, types.DiagnosticSink) []string
}

// IsNull reports whether the codec disables the stream.
func (c *Codec) IsNull() bool { return c.mode == modeNull }

// IsCopy reports whether the codec copies the stream unchanged.
func (c *Codec) IsCopy() bool { return c.mode == modeCopy }

// Compile translates req into ffmpeg arguments. It fails only when
// req.Codec does not name c; every other problem is reported to sink and
// degrades to an omitted or defaulted flag.
func (c *Codec) Compile(req Request, sink types.DiagnosticSink) ([]string, error) {
	switch c.mode {
	case modeNull:
		return []string{"-" + c.Kind.Letter() + "n"}, nil
	case modeCopy:
		return []string{"-" + c.Kind.Letter() + "codec", "copy"}, nil
	}

	if req.Codec != c.ID {
		return nil, fmt.Errorf("%w: %q for %s codec %q", ErrInvalidCodec, req.Codec, c.Kind, c.ID)
	}

	sink = stamp(sink, c.Kind, c.ID)

	safe, rejected := options.Filter(c.Schema, req.Options)
	for _, r := range rejected {
		sink.Report(types.Diagnostic{
			Option:   r.Key,
			Value:    fmt.Sprint(r.Value),
			Severity: types.SeverityDropped,
			Message:  r.Err.Error(),
		})
	}

	switch c.Kind {
	case types.StreamAudio:
		return c.compileAudio(safe, sink), nil
	case types.StreamVideo:
		return c.compileVideo(safe, sink), nil
	case types.StreamSubtitle:
		return c.compileSubtitle(safe, sink), nil
	}
	return nil, fmt.Errorf("%w: unsupported stream kind %q", ErrInvalidCodec, c.Kind)
}

func (c *Codec) applyPrepare(p Plan) Plan {
	if c.prepare == nil {
		return p
	}
	return c.prepare(p)
}

func (c *Codec) applyExtra(opts options.Options, sink types.DiagnosticSink) []string {
	var out []string
	if c.rules != nil {
		out = append(out, c.rules.Apply(opts, sink)...)
	}
	if c.extra != nil {
		out = append(out, c.extra(opts, sink)...)
	}
	return out
}

// stamp fills in the stream kind and codec of diagnostics reported by
// stages that do not know them.
func stamp(sink types.DiagnosticSink, kind types.StreamKind, codec string) types.DiagnosticSink {
	if sink == nil {
		sink = types.NopSink
	}
	return types.SinkFunc(func(d types.Diagnostic) {
		if d.Kind == "" {
			d.Kind = kind
		}
		if d.Codec == "" {
			d.Codec = codec
		}
		sink.Report(d)
	})
}
