package cmd

import (
	"fmt"
	"strings"

	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/types"
	"github.com/spf13/cobra"
)

// CreateCompileCmd creates the compile command.
func CreateCompileCmd() *cobra.Command {
	var asJSON bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "compile <kind> <codec> [key=value...]",
		Short: "Compile codec options into ffmpeg arguments",
		Long: `Compiles one stream request and prints the ffmpeg arguments. ` +
			`Options that are undeclared, out of range or invalid are dropped or replaced and reported on stderr.`,
		Example: `  avconv compile video h264 quality=20 preset=slow max_width=1280 max_height=720 sizing_policy=fit src_width=1920 src_height=1080
  avconv compile a vorbis channels=2 quality=6`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseStreamKind(args[0])
			if err != nil {
				return err
			}
			opts, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}

			var collector types.Collector
			sink := types.DiagnosticSink(&collector)
			if !quiet && !asJSON {
				sink = types.MultiSink{&collector, writerSink(cmd.ErrOrStderr())}
			}

			argv, err := encoders.Compile(kind, encoders.Request{Codec: args[1], Options: opts}, sink)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Args        []string           `json:"args"`
					Diagnostics []types.Diagnostic `json:"diagnostics"`
				}{argv, collector.Diagnostics()})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(argv, " "))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print arguments and diagnostics as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print diagnostics")
	return cmd
}
