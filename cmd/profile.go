package cmd

import (
	"fmt"
	"strings"

	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/profiles"
	"github.com/smazurov/avconv/internal/types"
	"github.com/spf13/cobra"
)

// CreateProfileCmd creates the profile command.
func CreateProfileCmd() *cobra.Command {
	var (
		profilesFile string
		input        string
		output       string
		source       profiles.Source
		list         bool
		argvLines    bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "profile [name]",
		Short: "Print the ffmpeg command of a profile",
		Long: `Loads encoding profiles from the profiles file and prints the complete ffmpeg command ` +
			`for the given input and output. With --list, prints the profile names instead.`,
		Example: `  avconv profile web -i in.mkv -o out.mp4 --src-width 1920 --src-height 1080
  avconv profile --list --profiles /etc/avconv/profiles.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := profiles.LoadFile(profilesFile)
			if err != nil {
				return err
			}
			reg := profiles.NewRegistry(encoders.Default())
			if err := reg.Replace(loaded); err != nil && !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			out := cmd.OutOrStdout()
			if list {
				for _, p := range reg.List() {
					fmt.Fprintf(out, "%s\t%s\n", p.Name, p.Description)
				}
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("profile name is required")
			}
			if input == "" || output == "" {
				return fmt.Errorf("both --input and --output are required")
			}

			p, err := reg.Get(args[0])
			if err != nil {
				return err
			}

			sink := types.NopSink
			if !quiet {
				sink = writerSink(cmd.ErrOrStderr())
			}
			compiled, err := profiles.Compile(reg.Codecs(), p, profiles.Target{Input: input, Output: output, Source: source}, sink)
			if err != nil {
				return err
			}

			if argvLines {
				_, err = fmt.Fprintln(out, strings.Join(compiled.Argv, "\n"))
				return err
			}
			_, err = fmt.Fprintln(out, ffmpeg.CommandLine(compiled.Argv))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&profilesFile, "profiles", profiles.DefaultPath, "Profiles file")
	flags.StringVarP(&input, "input", "i", "", "Input file")
	flags.StringVarP(&output, "output", "o", "", "Output file")
	flags.IntVar(&source.Width, "src-width", 0, "Source width in pixels")
	flags.IntVar(&source.Height, "src-height", 0, "Source height in pixels")
	flags.IntVar(&source.Rotate, "src-rotate", 0, "Source rotation in degrees")
	flags.BoolVar(&list, "list", false, "List profiles")
	flags.BoolVar(&argvLines, "argv", false, "Print one argument per line instead of a shell command")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Do not print diagnostics")
	return cmd
}
