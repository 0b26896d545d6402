package cmd

import (
	"github.com/spf13/cobra"
)

func newLabelsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Print the active label table as YAML",
		Long: `Prints the label table used to localize record field names, in the YAML
format accepted by --labels. Redirect it to a file to start a custom table.`,
		Example: `  # Dump the built-in table
  flowerview labels > labels.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}
			data, err := table.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
