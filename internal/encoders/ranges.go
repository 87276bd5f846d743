package encoders

import (
	"fmt"
	"unicode/utf8"

	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

// Bounds of the per-family range checks. Values outside are dropped.
const (
	MinChannels   = 1
	MaxChannels   = 12
	MinAudioRate  = 8
	MaxAudioRate  = 512
	MinSampleRate = 1000
	MaxSampleRate = 50000

	MinFPS       = 1.0
	MaxFPS       = 120.0
	MinVideoRate = 0.1
	MaxVideoRate = 200.0
	MinBufsize   = 1
	MaxBufsize   = 10000
	MinMaxWidth  = 16
	MaxMaxWidth  = 4000
	MinMaxHeight = 16
	MaxMaxHeight = 3000

	MaxLanguageLength = 3
)

type check struct {
	option string
	domain string
	valid  func(any) bool
}

func intIn(lo, hi int) func(any) bool {
	return func(v any) bool {
		i, ok := v.(int)
		return ok && i >= lo && i <= hi
	}
}

func floatIn(lo, hi float64) func(any) bool {
	return func(v any) bool {
		f, ok := v.(float64)
		return ok && f >= lo && f <= hi
	}
}

var (
	audioChecks = []check{
		{"channels", fmt.Sprintf("[%d,%d]", MinChannels, MaxChannels), intIn(MinChannels, MaxChannels)},
		{"bitrate", fmt.Sprintf("[%d,%d]", MinAudioRate, MaxAudioRate), intIn(MinAudioRate, MaxAudioRate)},
		{"samplerate", fmt.Sprintf("[%d,%d]", MinSampleRate, MaxSampleRate), intIn(MinSampleRate, MaxSampleRate)},
	}
	videoChecks = []check{
		{"fps", "[1,120]", floatIn(MinFPS, MaxFPS)},
		{"bitrate", "[0.1,200]", floatIn(MinVideoRate, MaxVideoRate)},
		{"bufsize", fmt.Sprintf("[%d,%d]", MinBufsize, MaxBufsize), intIn(MinBufsize, MaxBufsize)},
		{"max_width", fmt.Sprintf("[%d,%d]", MinMaxWidth, MaxMaxWidth), intIn(MinMaxWidth, MaxMaxWidth)},
		{"max_height", fmt.Sprintf("[%d,%d]", MinMaxHeight, MaxMaxHeight), intIn(MinMaxHeight, MaxMaxHeight)},
	}
	subtitleChecks = []check{
		{"forced", "{0,1}", intIn(0, 1)},
		{"default", "{0,1}", intIn(0, 1)},
		{"language", fmt.Sprintf("at most %d characters", MaxLanguageLength), func(v any) bool {
			s, ok := v.(string)
			return ok && utf8.RuneCountInString(s) <= MaxLanguageLength
		}},
	}
)

// ValidateRanges removes options of kind that fall outside their family
// domain and rounds kept odd video maxima up to even. It returns a new map
// and is idempotent.
func ValidateRanges(kind types.StreamKind, opts options.Options, sink types.DiagnosticSink) options.Options {
	if sink == nil {
		sink = types.NopSink
	}

	var checks []check
	switch kind {
	case types.StreamAudio:
		checks = audioChecks
	case types.StreamVideo:
		checks = videoChecks
	case types.StreamSubtitle:
		checks = subtitleChecks
	}

	out := opts.Clone()
	for _, c := range checks {
		v, ok := out[c.option]
		if !ok || c.valid(v) {
			continue
		}
		delete(out, c.option)
		sink.Report(types.Diagnostic{
			Kind:     kind,
			Option:   c.option,
			Value:    fmt.Sprint(v),
			Severity: types.SeverityDropped,
			Message:  fmt.Sprintf("%s=%v outside %s", c.option, v, c.domain),
		})
	}

	if kind == types.StreamVideo {
		for _, key := range []string{"max_width", "max_height"} {
			if d, ok := out.Int(key); ok && d%2 != 0 {
				out[key] = d + 1
			}
		}
	}
	return out
}
