package ffmpeg

import (
	"fmt"
	"slices"
	"strings"
)

// OptionType names an input-side ffmpeg behaviour flag that a profile can
// switch on in addition to its per-stream arguments.
type OptionType string

const (
	OptionGeneratePTS     OptionType = "genpts"
	OptionIgnoreDTS       OptionType = "igndts"
	OptionIgnoreErrors    OptionType = "ignore_err"
	OptionAvoidNegativeTS OptionType = "avoid_negative_ts"
	OptionThreadQueue1024 OptionType = "thread_queue_1024"
	OptionThreadQueue4096 OptionType = "thread_queue_4096"
	OptionCopyTimestamps  OptionType = "copyts"
)

// OptionCategory groups options for listing.
type OptionCategory string

const (
	CategoryTiming      OptionCategory = "Timing"
	CategoryErrorHandle OptionCategory = "Error Handling"
	CategoryPerformance OptionCategory = "Performance"
)

// ExclusiveGroup names a set of options of which at most one may be selected.
type ExclusiveGroup string

const (
	GroupThreadQueue ExclusiveGroup = "thread_queue"
)

// Option describes an input behaviour flag.
type Option struct {
	Key            OptionType     `json:"key"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Category       OptionCategory `json:"category"`
	FFmpegDefault  string         `json:"ffmpeg_default"`
	ExclusiveGroup ExclusiveGroup `json:"exclusive_group,omitempty"`
	ConflictsWith  []OptionType   `json:"conflicts_with,omitempty"`
}

// AllOptions lists every supported input behaviour flag.
var AllOptions = []Option{
	{
		Key:           OptionGeneratePTS,
		Name:          "Generate PTS",
		Description:   "Generate missing presentation timestamps",
		Category:      CategoryTiming,
		FFmpegDefault: "disabled",
		ConflictsWith: []OptionType{OptionCopyTimestamps},
	},
	{
		Key:           OptionIgnoreDTS,
		Name:          "Ignore DTS",
		Description:   "Ignore decode timestamps of damaged inputs",
		Category:      CategoryErrorHandle,
		FFmpegDefault: "disabled",
	},
	{
		Key:           OptionIgnoreErrors,
		Name:          "Ignore Errors",
		Description:   "Continue decoding despite bitstream errors",
		Category:      CategoryErrorHandle,
		FFmpegDefault: "disabled",
	},
	{
		Key:           OptionAvoidNegativeTS,
		Name:          "Avoid Negative Timestamps",
		Description:   "Shift output timestamps so they start at zero",
		Category:      CategoryTiming,
		FFmpegDefault: "auto",
	},
	{
		Key:            OptionThreadQueue1024,
		Name:           "Large Thread Queue",
		Description:    "Use a 1024 packet input queue",
		Category:       CategoryPerformance,
		FFmpegDefault:  "8",
		ExclusiveGroup: GroupThreadQueue,
	},
	{
		Key:            OptionThreadQueue4096,
		Name:           "Extra Large Thread Queue",
		Description:    "Use a 4096 packet input queue",
		Category:       CategoryPerformance,
		FFmpegDefault:  "8",
		ExclusiveGroup: GroupThreadQueue,
	},
	{
		Key:           OptionCopyTimestamps,
		Name:          "Copy Timestamps",
		Description:   "Keep input timestamps and start output at zero",
		Category:      CategoryTiming,
		FFmpegDefault: "disabled",
		ConflictsWith: []OptionType{OptionGeneratePTS},
	},
}

// LookupOption returns the option registered under key.
func LookupOption(key OptionType) (Option, bool) {
	i := slices.IndexFunc(AllOptions, func(o Option) bool { return o.Key == key })
	if i < 0 {
		return Option{}, false
	}
	return AllOptions[i], true
}

// OptionsByCategory groups AllOptions by category.
func OptionsByCategory() map[OptionCategory][]Option {
	categories := make(map[OptionCategory][]Option)
	for _, option := range AllOptions {
		categories[option.Category] = append(categories[option.Category], option)
	}
	return categories
}

// ValidateOptions checks a selection for unknown keys, more than one member
// of an exclusive group, and declared conflicts.
func ValidateOptions(selected []OptionType) error {
	groups := make(map[ExclusiveGroup][]string)
	for _, key := range selected {
		option, ok := LookupOption(key)
		if !ok {
			return fmt.Errorf("unknown ffmpeg option %q", key)
		}
		if option.ExclusiveGroup != "" {
			groups[option.ExclusiveGroup] = append(groups[option.ExclusiveGroup], option.Name)
		}
	}

	for group, names := range groups {
		if len(names) > 1 {
			return fmt.Errorf("multiple options from exclusive group '%s' selected: %s", group, strings.Join(names, ", "))
		}
	}

	for _, key := range selected {
		option, _ := LookupOption(key)
		for _, conflict := range option.ConflictsWith {
			if slices.Contains(selected, conflict) {
				other, _ := LookupOption(conflict)
				return fmt.Errorf("option '%s' conflicts with '%s'", option.Name, other.Name)
			}
		}
	}

	return nil
}

// applyInputOptions appends the input-side flags for options. It returns the
// output-side flags that must follow the input (copyts).
func applyInputOptions(options []OptionType, args *Args) []string {
	var fflags []string
	var after []string

	for _, option := range options {
		switch option {
		case OptionGeneratePTS:
			fflags = append(fflags, "+genpts")
		case OptionIgnoreDTS:
			fflags = append(fflags, "+igndts")
		case OptionIgnoreErrors:
			args.Append("-err_detect", "ignore_err")
		case OptionThreadQueue1024:
			args.Append("-thread_queue_size", "1024")
		case OptionThreadQueue4096:
			args.Append("-thread_queue_size", "4096")
		case OptionAvoidNegativeTS:
			after = append(after, "-avoid_negative_ts", "make_zero")
		case OptionCopyTimestamps:
			after = append(after, "-copyts", "-start_at_zero")
		}
	}

	if len(fflags) > 0 {
		args.Append("-fflags", strings.Join(fflags, ""))
	}
	return after
}
