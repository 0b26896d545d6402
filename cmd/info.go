package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowerview/flowerview/internal/render"
)

func newInfoCmd(configFile *string) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "info CLASS_ID",
		Short: "Print the record of one class",
		Long: `Fetches the record of a class from the configured info provider and prints
it with localized field labels. Nested records and lists are indented and
links are shown in angle brackets.`,
		Example: `  # Ask the classification service
  flowerview info r1

  # Read from a local catalog and print the raw JSON
  flowerview info r1 --info-provider catalog --catalog ./flowers.jsonl --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}

			record, err := a.info.ClassInfo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get class info for %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if raw {
				data, err := record.MarshalJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			return render.PrintDetail(out, a.renderer.RenderTopLevel(record))
		},
	}

	cmd.Flags().BoolVar(&raw, "json", false, "Print the record as JSON in its original field order")

	return cmd
}
