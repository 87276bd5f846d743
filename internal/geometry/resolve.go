package geometry

import (
	"fmt"
	"strconv"

	"github.com/smazurov/avconv/internal/types"
)

// MaxSourceDimension bounds src_width and src_height. Larger or negative
// values are treated as unknown.
const MaxSourceDimension = 1 << 16

// Input carries the geometry-related options of a video request.
// A zero dimension means the value is absent.
type Input struct {
	SourceWidth  int
	SourceHeight int
	MaxWidth     int
	MaxHeight    int
	Policy       Policy
	Crop         string
	Autorotate   bool
	SourceRotate int
}

// Result is the resolved output geometry. Width and Height are either both
// positive and even or both zero.
type Result struct {
	Width  int
	Height int
	// Filter is a crop fragment produced by Fill-type policies.
	Filter string
}

// Known reports whether both output dimensions were resolved.
func (r Result) Known() bool {
	return r.Width > 0 && r.Height > 0
}

// Aspect returns the "W:H" display aspect, or "" when the size is unknown.
func (r Result) Aspect() string {
	if !r.Known() {
		return ""
	}
	return fmt.Sprintf("%d:%d", r.Width, r.Height)
}

// Size returns the "WxH" frame size, or "" when the size is unknown.
func (r Result) Size() string {
	if !r.Known() {
		return ""
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Resolve computes the output geometry for in. An unsupported policy is
// reported to sink as a warning and the source size is echoed back.
func Resolve(in Input, sink types.DiagnosticSink) Result {
	if sink == nil {
		sink = types.NopSink
	}

	sw := sourceDimension("src_width", in.SourceWidth, sink)
	sh := sourceDimension("src_height", in.SourceHeight, sink)
	if cw, ch, ok := cropSource(in.Crop); ok {
		sw, sh = cw, ch
	}

	policy := in.Policy
	if policy == "" {
		policy = DefaultPolicy
	}

	w, h, filter := correct(sw, sh, in.MaxWidth, in.MaxHeight, policy, sink)

	if w <= 0 || h <= 0 {
		return Result{}
	}
	w, h = roundEven(w), roundEven(h)

	if in.Autorotate && (in.SourceRotate == 90 || in.SourceRotate == 270) {
		w, h = h, w
	}

	return Result{Width: w, Height: h, Filter: filter}
}

// sourceDimension returns d, or zero with a dropped diagnostic when d is
// outside [0, MaxSourceDimension].
func sourceDimension(option string, d int, sink types.DiagnosticSink) int {
	if d >= 0 && d <= MaxSourceDimension {
		return d
	}
	sink.Report(types.Diagnostic{
		Kind:     types.StreamVideo,
		Option:   option,
		Value:    strconv.Itoa(d),
		Severity: types.SeverityDropped,
		Message:  fmt.Sprintf("%s=%d outside [0,%d], treating it as unknown", option, d, MaxSourceDimension),
	})
	return 0
}

func correct(sw, sh, mw, mh int, policy Policy, sink types.DiagnosticSink) (int, int, string) {
	if mw <= 0 || mh <= 0 || sw <= 0 || sh <= 0 {
		return mw, mh, ""
	}

	switch policy {
	case Fit:
		w, h := fit(sw, sh, mw, mh)
		return w, h, ""
	case Fill:
		return fill(sw, sh, mw, mh)
	case Stretch:
		return mw, mh, ""
	case Keep:
		return sw, sh, ""
	case ShrinkToFit:
		if sh > mh || sw > mw {
			w, h := fit(sw, sh, mw, mh)
			return w, h, ""
		}
		return sw, sh, ""
	case ShrinkToFill:
		if sh < mh || sw < mw {
			return fill(sw, sh, mw, mh)
		}
		return sw, sh, ""
	}

	sink.Report(types.Diagnostic{
		Kind:     types.StreamVideo,
		Option:   "sizing_policy",
		Value:    string(policy),
		Severity: types.SeverityWarning,
		Message:  fmt.Sprintf("invalid sizing policy %q, keeping source size", policy),
	})
	return sw, sh, ""
}

// aspect compares the source aspect sh/sw with the target aspect mh/mw:
// negative when the source is wider, positive when it is taller.
func aspect(sw, sh, mw, mh int) int {
	a, b := int64(sh)*int64(mw), int64(mh)*int64(sw)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func fit(sw, sh, mw, mh int) (int, int) {
	switch aspect(sw, sh, mw, mh) {
	case 0:
		return mw, mh
	case 1:
		return scale(sw, mh, sh), mh
	}
	return mw, scale(sh, mw, sw)
}

func fill(sw, sh, mw, mh int) (int, int, string) {
	switch aspect(sw, sh, mw, mh) {
	case 0:
		return mw, mh, ""
	case -1:
		w0 := scale(sw, mh, sh)
		dw := (w0 - mw) / 2
		return w0, mh, fmt.Sprintf("crop=%d:%d:%d:0", mw, mh, dw)
	}
	h0 := scale(sh, mw, sw)
	dh := (h0 - mh) / 2
	return mw, h0, fmt.Sprintf("crop=%d:%d:0:%d", mw, mh, dh)
}

// scale returns d*num/den truncated toward zero, never less than one.
func scale(d, num, den int) int {
	return max(1, int(int64(d)*int64(num)/int64(den)))
}

func roundEven(d int) int {
	if d%2 != 0 {
		return d + 1
	}
	return d
}
