package validation

import (
	"slices"
	"strings"
)

var (
	nvencPresets = []string{
		"default", "slow", "medium", "fast", "hp", "hq", "bd",
		"ll", "llhq", "llhp", "lossless", "losslesshp",
	}
	nvencRateControls = []string{
		"constqp", "vbr", "cbr", "vbr_minqp",
		"ll_2pass_quality", "ll_2pass_size", "vbr_2pass",
	}
	h264NvencLevels = []string{
		"auto", "1", "1.0", "1b", "1.0b", "1.1", "1.2", "1.3",
		"2", "2.0", "2.1", "2.2", "3", "3.0", "3.1", "3.2",
		"4", "4.0", "4.1", "4.2", "5", "5.0", "5.1",
	}
	hevcNvencLevels = []string{
		"auto", "1", "1.0", "2", "2.0", "2.1", "3", "3.0", "3.1",
		"4", "4.0", "4.1", "5", "5.0", "5.1", "5.2", "6", "6.0", "6.1", "6.2",
	}
)

// NvencValidator holds the rate-control rules of the NVIDIA NVENC encoders.
type NvencValidator struct {
	rules map[string]RuleSet
}

// NewNvencValidator creates a new NVENC validator.
func NewNvencValidator() *NvencValidator {
	return &NvencValidator{
		rules: map[string]RuleSet{
			"h264_nvenc": {Encoder: "h264_nvenc", Rules: h264NvencRules()},
			"hevc_nvenc": {Encoder: "hevc_nvenc", Rules: hevcNvencRules()},
		},
	}
}

// CanValidate returns true for NVENC encoder names.
func (v *NvencValidator) CanValidate(encoderName string) bool {
	return strings.Contains(encoderName, "nvenc") && slices.Contains(v.GetEncoderNames(), encoderName)
}

// GetEncoderNames returns the list of NVENC encoder names.
func (v *NvencValidator) GetEncoderNames() []string {
	return []string{"h264_nvenc", "hevc_nvenc"}
}

// GetDescription returns a description of this validator.
func (v *NvencValidator) GetDescription() string {
	return "NVIDIA NVENC - rate control, preset and quantizer rules"
}

// Rules returns the rule set of encoderName.
func (v *NvencValidator) Rules(encoderName string) (RuleSet, bool) {
	rs, ok := v.rules[encoderName]
	return rs, ok
}

// Invalid NVENC values never abort a request: the documented default is
// substituted and the flag is still emitted.
func h264NvencRules() []Rule {
	return []Rule{
		Enum("preset", "-preset", "medium", nvencPresets...),
		Enum("profile", "-profile", "main", "baseline", "main", "high", "high444p"),
		Enum("level", "-level", "auto", h264NvencLevels...),
		Enum("rc", "-rc", "-1", nvencRateControls...),
		IntMin("rc-lookahead", "-rc-lookahead", -1, "-1"),
		IntMin("surfaces", "-surfaces", 0, "32"),
		Switch("cbr", "-cbr"),
		Switch("2pass", "-2pass"),
		IntMin("gpu", "-gpu", -2, "any"),
		IntMin("delay", "-delay", 0, "0"),
		Switch("no-scenecut", "-no-scenecut"),
		Switch("forced-idr", "-forced-idr"),
		Switch("b_adapt", "-b_adapt"),
		Switch("spatial-aq", "-spatial-aq"),
		Switch("temporal-aq", "-temporal-aq"),
		Switch("zerolatency", "-zerolatency"),
		Switch("nonref_p", "-nonref_p"),
		Switch("strict_gop", "-strict_gop"),
		IntRange("aq-strength", "-aq-strength", 1, 15, "8"),
		FloatRange("cq", "-cq", 0, 51, "0"),
		FloatRange("qmin", "-qmin", 0, 51, "0"),
		FloatRange("qmax", "-qmax", 0, 51, "51"),
	}
}

func hevcNvencRules() []Rule {
	return []Rule{
		Enum("preset", "-preset", "medium", nvencPresets...),
		Enum("profile", "-profile", "main", "main", "main10", "rext"),
		Enum("level", "-level", "auto", hevcNvencLevels...),
		Enum("tier", "-tier", "main", "main", "high"),
		Enum("rc", "-rc", "-1", nvencRateControls...),
		IntRange("rc-lookahead", "-rc-lookahead", 1, 32, "-1"),
		IntMin("surfaces", "-surfaces", 0, "32"),
		Switch("cbr", "-cbr"),
		Switch("2pass", "-2pass"),
		IntMin("gpu", "-gpu", -2, "any"),
		IntMin("delay", "-delay", 0, "0"),
		Switch("no-scenecut", "-no-scenecut"),
		Switch("forced-idr", "-forced-idr"),
		Switch("spatial_aq", "-spatial_aq"),
		Switch("temporal_aq", "-temporal_aq"),
		Switch("zerolatency", "-zerolatency"),
		Switch("nonref_p", "-nonref_p"),
		Switch("strict_gop", "-strict_gop"),
		IntRange("aq-strength", "-aq-strength", 1, 15, "8"),
		FloatRange("cq", "-cq", 0, 51, "0"),
		FloatRange("qmin", "-qmin", 0, 51, "0"),
		FloatRange("qmax", "-qmax", 0, 51, "51"),
	}
}

