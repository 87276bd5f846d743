package encoders

import (
	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

// Subtitle options are validated but no built-in subtitle codec emits them.
var subtitleBase = options.Schema{
	"language": options.TypeString,
	"forced":   options.TypeInt,
	"default":  options.TypeInt,
}

func (c *Codec) compileSubtitle(safe options.Options, sink types.DiagnosticSink) []string {
	safe = ValidateRanges(types.StreamSubtitle, safe, sink)
	plan := c.applyPrepare(Plan{Options: safe})

	args := ffmpeg.NewArgs("-scodec", c.Encoder)
	args.Append(c.applyExtra(plan.Options, sink)...)
	return args.Strings()
}
