package encoders

import (
	"fmt"
	"strconv"

	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

var audioBase = options.Schema{
	"channels":   options.TypeInt,
	"bitrate":    options.TypeInt,
	"samplerate": options.TypeInt,
	"volume":     options.TypeFloat,
	"filters":    options.TypeString,
}

func (c *Codec) compileAudio(safe options.Options, sink types.DiagnosticSink) []string {
	safe = ValidateRanges(types.StreamAudio, safe, sink)
	plan := c.applyPrepare(Plan{Options: safe})
	opts := plan.Options

	args := ffmpeg.NewArgs("-acodec", c.Encoder)
	if ch, ok := opts.Int("channels"); ok {
		args.Append("-ac", strconv.Itoa(ch))
	}
	if br, ok := opts.Int("bitrate"); ok {
		args.Append("-ab", ffmpeg.Kilo(br))
	}
	if sr, ok := opts.Int("samplerate"); ok {
		args.Append("-ar", strconv.Itoa(sr))
	}
	if vol, ok := opts.Float("volume"); ok {
		args.ExtendFilter(ffmpeg.AudioFilterFlag, fmt.Sprintf("volume=%.1fdB", vol))
	}
	if f, ok := opts.String("filters"); ok {
		args.ExtendFilter(ffmpeg.AudioFilterFlag, f)
	}

	args.Append(c.applyExtra(opts, sink)...)
	return args.Strings()
}
