package encoders

import (
	"fmt"

	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/geometry"
	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

// DefaultPixelFormat is used when a request names none. ffmpeg falls back
// to the closest format the encoder supports.
const DefaultPixelFormat = "yuv420p"

var videoBase = options.Schema{
	"bitrate":       options.TypeFloat,
	"fps":           options.TypeFloat,
	"pix_fmt":       options.TypeString,
	"max_width":     options.TypeInt,
	"max_height":    options.TypeInt,
	"sizing_policy": options.TypeString,
	"src_width":     options.TypeInt,
	"src_height":    options.TypeInt,
	"src_rotate":    options.TypeInt,
	"crop":          options.TypeString,
	"filters":       options.TypeString,
	"autorotate":    options.TypeBool,
	"bufsize":       options.TypeInt,
}

var rotateFilters = map[int]string{
	90:  "transpose=1",
	180: "transpose=2,transpose=2",
	270: "transpose=2",
}

// resolveGeometry drops an unparseable crop and resolves the output size.
func resolveGeometry(opts options.Options, sink types.DiagnosticSink) (options.Options, geometry.Result) {
	if crop, ok := opts.String("crop"); ok {
		if _, _, err := geometry.ParseCrop(crop); err != nil {
			opts = opts.Without("crop")
			sink.Report(types.Diagnostic{
				Option:   "crop",
				Value:    crop,
				Severity: types.SeverityDropped,
				Message:  err.Error(),
			})
		}
	}

	in := geometry.Input{}
	in.SourceWidth, _ = opts.Int("src_width")
	in.SourceHeight, _ = opts.Int("src_height")
	in.MaxWidth, _ = opts.Int("max_width")
	in.MaxHeight, _ = opts.Int("max_height")
	in.Crop, _ = opts.String("crop")
	in.Autorotate, _ = opts.Bool("autorotate")
	in.SourceRotate, _ = opts.Int("src_rotate")
	if p, ok := opts.String("sizing_policy"); ok {
		in.Policy = geometry.Policy(p)
	}

	return opts, geometry.Resolve(in, sink)
}

func (c *Codec) compileVideo(safe options.Options, sink types.DiagnosticSink) []string {
	safe = ValidateRanges(types.StreamVideo, safe, sink)
	safe, geo := resolveGeometry(safe, sink)

	plan := c.applyPrepare(Plan{Options: safe, Geometry: geo, Filter: geo.Filter})
	opts := plan.Options

	pixFmt, _ := opts.String("pix_fmt")
	if pixFmt == "" {
		pixFmt = DefaultPixelFormat
	}

	args := ffmpeg.NewArgs("-vcodec", c.Encoder, "-pix_fmt", pixFmt)
	if fps, ok := opts.Float("fps"); ok {
		args.Append("-r", ffmpeg.FormatRate(fps))
	}
	if br, ok := opts.Float("bitrate"); ok {
		args.Append("-vb", ffmpeg.Mega(br))
	}
	if bs, ok := opts.Int("bufsize"); ok {
		args.Append("-bufsize", ffmpeg.Kilo(bs))
	}
	if plan.Geometry.Known() {
		args.Append("-s", plan.Geometry.Size(), "-aspect", plan.Geometry.Aspect())
	}

	if crop, ok := opts.String("crop"); ok && crop != "" {
		args.ExtendFilter(ffmpeg.VideoFilterFlag, "crop="+crop)
	}
	args.ExtendFilter(ffmpeg.VideoFilterFlag, plan.Filter)
	if rotate, ok := opts.Bool("autorotate"); ok && rotate {
		if deg, ok := opts.Int("src_rotate"); ok {
			args.ExtendFilter(ffmpeg.VideoFilterFlag, rotateFilters[deg])
		}
	}
	if f, ok := opts.String("filters"); ok {
		args.ExtendFilter(ffmpeg.VideoFilterFlag, f)
	}

	args.Append(c.applyExtra(opts, sink)...)
	return args.Strings()
}

// mpegAspect works around ffmpeg's MPEG-1/2 encoders losing the display
// aspect: it is set again as a filter ahead of any crop.
func mpegAspect(p Plan) Plan {
	if !p.Geometry.Known() {
		return p
	}
	aspect := fmt.Sprintf("aspect=%d:%d", p.Geometry.Width, p.Geometry.Height)
	if p.Filter == "" {
		p.Filter = aspect
	} else {
		p.Filter = aspect + "," + p.Filter
	}
	return p
}
