package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flowerview/flowerview/internal/models"
	"github.com/flowerview/flowerview/internal/render"
	"github.com/flowerview/flowerview/internal/results"
)

func newPredictCmd(configFile *string) *cobra.Command {
	var file string
	var imageURL string
	var withInfo bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify one image and print the ranked predictions",
		Long: `Sends one image to the classification service and prints the visible
prediction rows, best first. Rows whose confidence rounds to 0.00% are hidden.

With --info the record of the top visible class is fetched and printed below
the predictions.`,
		Example: `  # Classify a local file
  flowerview predict --file ./rose.jpg

  # Classify an image by URL and show the top class record
  flowerview predict --url https://example.com/tulip.jpg --info`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (imageURL == "") {
				return errors.New("exactly one of --file or --url is required")
			}

			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			machine := a.newMachine()
			ctx := cmd.Context()

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				machine.SelectFile(models.Upload{
					Filename:    filepath.Base(file),
					ContentType: http.DetectContentType(data),
					Data:        data,
				})
				err = machine.SubmitFile(ctx)
				if err != nil {
					return fmt.Errorf("%s: %w", machine.Snapshot().Err, err)
				}
			} else {
				machine.EditURL(imageURL)
				if err := machine.SubmitURL(ctx); err != nil {
					return fmt.Errorf("%s: %w", machine.Snapshot().Err, err)
				}
			}

			out := cmd.OutOrStdout()
			rows := results.Rows(machine.Snapshot().Predictions)
			if len(rows) == 0 {
				fmt.Fprintln(out, "No predictions.")
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%d. %s (%s)\n", row.Rank+1, row.Label(), row.ClassID)
			}

			if !withInfo {
				return nil
			}
			if err := machine.SelectPrediction(ctx, rows[0].ClassID); err != nil {
				return fmt.Errorf("%s: %w", machine.Snapshot().Err, err)
			}
			fmt.Fprintln(out)
			return render.PrintDetail(out, a.renderer.RenderTopLevel(*machine.Snapshot().Detail))
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Image file to classify")
	cmd.Flags().StringVar(&imageURL, "url", "", "Image URL to classify")
	cmd.Flags().BoolVar(&withInfo, "info", false, "Also print the record of the top class")

	return cmd
}
