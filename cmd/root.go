package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "flowerview",
		Short: "Flower image classification viewer",
		Long: `Flowerview sends flower images to an image-classification service, shows the
top-5 ranked predictions and renders the descriptive record of a selected class.

It can run as a web interface (serve) or answer one-off questions from the
command line (predict, info). Settings come from FLOWERVIEW_* environment
variables, an optional YAML config file and the flags below.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML config file")
	flags.String("backend", "http://localhost:8000", "Base URL of the classification service")
	flags.Duration("timeout", 0, "Timeout for classification service calls (0 waits indefinitely)")
	flags.String("info-provider", "backend", "Source of class records (backend, catalog, gemini, openai, ollama)")
	flags.String("catalog", "", "Class catalog file (.parquet or .jsonl) for the catalog provider")
	flags.String("model", "", "Model name for LLM info providers (defaults to provider's default)")
	flags.String("labels", "", "YAML label table overriding the built-in one")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text or json)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(&configFile))
	cmd.AddCommand(newPredictCmd(&configFile))
	cmd.AddCommand(newInfoCmd(&configFile))
	cmd.AddCommand(newLabelsCmd(&configFile))

	return cmd
}
