package ffmpeg

import (
	"errors"
	"strings"
)

// Binary is the executable name placed at the head of built commands.
const Binary = "ffmpeg"

// Base returns the leading tokens shared by every command.
func Base() []string {
	return []string{Binary, "-hide_banner"}
}

// Params holds everything needed to assemble a full ffmpeg invocation from
// compiled per-stream arguments.
type Params struct {
	Input  string
	Output string
	// Format forces the output container (-f) when set.
	Format string
	// InputOptions are behaviour flags applied around the input.
	InputOptions []OptionType
	Audio        []string
	Video        []string
	Subtitle     []string
	// NoOverwrite omits -y.
	NoOverwrite bool
}

// BuildCommand assembles the argv for p:
//
//	ffmpeg -hide_banner [input flags] -i <in> <audio> <video> <subtitle> [-f fmt] -y <out>
func BuildCommand(p Params) ([]string, error) {
	if p.Input == "" {
		return nil, errors.New("input path is required")
	}
	if p.Output == "" {
		return nil, errors.New("output path is required")
	}
	if err := ValidateOptions(p.InputOptions); err != nil {
		return nil, err
	}

	args := NewArgs(Base()...)
	after := applyInputOptions(p.InputOptions, args)
	args.Append("-i", p.Input)
	args.Append(after...)

	args.Append(p.Audio...)
	args.Append(p.Video...)
	args.Append(p.Subtitle...)

	args.Flag("-f", p.Format)
	if !p.NoOverwrite {
		args.Append("-y")
	}
	args.Append(p.Output)

	return args.Strings(), nil
}

// CommandLine joins argv into a single shell-quoted line for display.
func CommandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = quote(arg)
	}
	return strings.Join(quoted, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`;&|<>()*?[]#~!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
