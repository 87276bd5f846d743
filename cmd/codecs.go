package cmd

import (
	"fmt"
	"strings"

	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/types"
	"github.com/spf13/cobra"
)

// CreateCodecsCmd creates the codecs command.
func CreateCodecsCmd() *cobra.Command {
	var verbose bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "codecs [kind]",
		Short: "List supported codecs",
		Long:  `Lists the codec catalogue, optionally restricted to audio, video or subtitle.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := types.StreamKinds
			if len(args) == 1 {
				kind, err := types.ParseStreamKind(args[0])
				if err != nil {
					return err
				}
				kinds = []types.StreamKind{kind}
			}

			var infos []encoders.CodecInfo
			for _, kind := range kinds {
				for _, c := range encoders.Codecs(kind) {
					infos = append(infos, c.Info())
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			headers := []string{"Kind", "Codec", "Encoder", "Description"}
			if verbose {
				headers = append(headers, "Options")
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				row := []string{string(info.Kind), info.ID, info.Encoder, info.Description}
				if verbose {
					row = append(row, describeOptions(info.Options))
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show declared options")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

// describeOptions renders one line per declared option.
func describeOptions(opts []encoders.OptionInfo) string {
	lines := make([]string, 0, len(opts))
	for _, o := range opts {
		parts := []string{o.Name, string(o.Type)}
		if o.Flag != "" {
			parts = append(parts, o.Flag)
		}
		if o.Domain != "" {
			parts = append(parts, o.Domain)
		}
		if o.Default != "" {
			parts = append(parts, "default "+o.Default)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
