package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowerview/flowerview/internal/catalog"
	"github.com/flowerview/flowerview/internal/classifier"
	"github.com/flowerview/flowerview/internal/config"
	"github.com/flowerview/flowerview/internal/describe"
	"github.com/flowerview/flowerview/internal/gemini"
	"github.com/flowerview/flowerview/internal/labels"
	"github.com/flowerview/flowerview/internal/logging"
	"github.com/flowerview/flowerview/internal/ollama"
	"github.com/flowerview/flowerview/internal/openai"
	"github.com/flowerview/flowerview/internal/providers"
	"github.com/flowerview/flowerview/internal/render"
	"github.com/flowerview/flowerview/internal/session"
)

// app bundles the collaborators every subcommand works with.
type app struct {
	cfg        *config.Config
	labels     labels.Table
	renderer   *render.Renderer
	classifier *classifier.Client
	info       providers.InfoSource
}

// loadConfig reads configuration and sets up logging.
func loadConfig(cmd *cobra.Command, configFile string) (*config.Config, labels.Table, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, labels.Table{}, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	table, err := labels.FromPath(cfg.Labels.Path)
	if err != nil {
		return nil, labels.Table{}, fmt.Errorf("failed to load labels: %w", err)
	}
	return cfg, table, nil
}

func newApp(cmd *cobra.Command, configFile string) (*app, error) {
	cfg, table, err := loadConfig(cmd, configFile)
	if err != nil {
		return nil, err
	}

	client := classifier.NewClient(cfg.Backend.URL, classifier.WithTimeout(cfg.Backend.Timeout))
	info, err := newInfoSource(cfg.Info, client, table)
	if err != nil {
		return nil, err
	}

	slog.Debug("Configured",
		"backend", cfg.Backend.URL,
		"info_provider", cfg.Info.Provider,
		"model", cfg.Info.Model,
		"labels", cfg.Labels.Path,
	)

	return &app{
		cfg:        cfg,
		labels:     table,
		renderer:   render.New(table),
		classifier: client,
		info:       info,
	}, nil
}

func (a *app) newMachine() *session.Machine {
	return session.New(a.classifier, a.info)
}

// newInfoSource picks where class records come from. API keys and hosts
// fall back to the usual provider environment variables.
func newInfoSource(cfg config.InfoConfig, client *classifier.Client, table labels.Table) (providers.InfoSource, error) {
	switch cfg.Provider {
	case "catalog":
		src, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		return src, nil
	case "gemini":
		provider := gemini.New(firstNonEmpty(cfg.APIKey, os.Getenv("GEMINI_API_KEY")))
		return describe.New(provider, cfg.Model, cfg.Temperature, table), nil
	case "openai":
		provider := openai.New(firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY")), cfg.URL)
		return describe.New(provider, cfg.Model, cfg.Temperature, table), nil
	case "ollama":
		provider := ollama.New(firstNonEmpty(cfg.URL, os.Getenv("OLLAMA_URL"), os.Getenv("OLLAMA_HOST")))
		return describe.New(provider, cfg.Model, cfg.Temperature, table), nil
	default:
		return client, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
