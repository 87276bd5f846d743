package validation

import (
	"slices"

	"github.com/smazurov/avconv/internal/options"
)

var x264Presets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

var x264Profiles = []string{"baseline", "main", "high", "high10", "high422", "high444"}

// GenericValidator holds the rules of the software encoders that declare
// codec-specific options.
type GenericValidator struct {
	rules map[string]RuleSet
}

// NewGenericValidator creates a new software encoder validator.
func NewGenericValidator() *GenericValidator {
	sets := []RuleSet{
		{Encoder: "libx264", Rules: x264Rules()},
		{Encoder: "ffv1", Rules: ffv1Rules()},
		{Encoder: "libvorbis", Rules: []Rule{IntRange("quality", "-qscale:a", 0, 10, "").OrDrop()}},
		{Encoder: "libtheora", Rules: []Rule{IntRange("quality", "-qscale:v", 0, 10, "").OrDrop()}},
	}
	rules := make(map[string]RuleSet, len(sets))
	for _, rs := range sets {
		rules[rs.Encoder] = rs
	}
	return &GenericValidator{rules: rules}
}

// CanValidate returns true for the software encoders with rules.
func (v *GenericValidator) CanValidate(encoderName string) bool {
	_, ok := v.rules[encoderName]
	return ok
}

// GetEncoderNames returns the software encoder names this validator handles.
func (v *GenericValidator) GetEncoderNames() []string {
	names := make([]string, 0, len(v.rules))
	for name := range v.rules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetDescription returns a description of this validator.
func (v *GenericValidator) GetDescription() string {
	return "Software encoders - x264, FFV1, Vorbis and Theora option rules"
}

// Rules returns the rule set of encoderName.
func (v *GenericValidator) Rules(encoderName string) (RuleSet, bool) {
	rs, ok := v.rules[encoderName]
	return rs, ok
}

func x264Rules() []Rule {
	return []Rule{
		Enum("preset", "-preset", "medium", x264Presets...),
		IntRange("quality", "-crf", 0, 51, "23"),
		Enum("profile", "-profile:v", "high", x264Profiles...),
		Passthrough("tune", "-tune", options.TypeString),
		Passthrough("level", "-level", options.TypeString),
		Passthrough("max_reference_frames", "-refs", options.TypeInt),
		Passthrough("max_rate", "-maxrate", options.TypeString),
		Passthrough("max_frames_between_keyframes", "-g", options.TypeInt),
		Passthrough("qmin", "-qmin", options.TypeInt),
		Passthrough("qcomp", "-qcomp", options.TypeFloat),
		Passthrough("keyint_min", "-keyint_min", options.TypeInt),
		Passthrough("subq", "-subq", options.TypeInt),
		Passthrough("b-pyramid", "-b-pyramid", options.TypeInt),
		Passthrough("trellis", "-trellis", options.TypeInt),
	}
}

// FFV1 values outside their sets are dropped and ffmpeg picks its default.
func ffv1Rules() []Rule {
	return []Rule{
		IntSet("level", "-level", 1, 3),
		IntSet("coder", "-coder", 0, 1, 2),
		IntSet("context", "-context", 0, 1),
		IntMin("g", "-g", 1, "").OrDrop(),
		IntSet("slices", "-slices", 4, 6, 9, 12, 16, 24, 30),
		IntSet("slicecrc", "-slicecrc", 0, 1),
	}
}
