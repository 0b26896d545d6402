package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all flowerview configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Info    InfoConfig    `mapstructure:"info"`
	Labels  LabelsConfig  `mapstructure:"labels"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
}

// BackendConfig points at the classification service.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 disables the timeout
}

// InfoConfig selects where class records come from.
type InfoConfig struct {
	Provider    string  `mapstructure:"provider"` // backend, catalog, gemini, openai, ollama
	Catalog     string  `mapstructure:"catalog"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"api_key"`
	URL         string  `mapstructure:"url"`
}

// LabelsConfig locates an optional label table file.
type LabelsConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

var validProviders = map[string]bool{
	"backend": true,
	"catalog": true,
	"gemini":  true,
	"openai":  true,
	"ollama":  true,
}

// Load reads configuration from FLOWERVIEW_* environment variables, an
// optional YAML file and any flags bound by the caller. Flags win over the
// environment, which wins over the file.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FLOWERVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8888")
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.session_ttl", "24h")

	v.SetDefault("backend.url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "0s")

	v.SetDefault("info.provider", "backend")
	v.SetDefault("info.catalog", "")
	v.SetDefault("info.model", "")
	v.SetDefault("info.temperature", 0.1)
	v.SetDefault("info.api_key", "")
	v.SetDefault("info.url", "")

	v.SetDefault("labels.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyProviderDefaults()
	return &cfg, nil
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"port":          "server.port",
	"backend":       "backend.url",
	"timeout":       "backend.timeout",
	"info-provider": "info.provider",
	"catalog":       "info.catalog",
	"model":         "info.model",
	"labels":        "labels.path",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks settings that would otherwise fail later at request time.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url must not be empty")
	}
	if !validProviders[c.Info.Provider] {
		return fmt.Errorf("unsupported info provider %q (supported: backend, catalog, gemini, openai, ollama)", c.Info.Provider)
	}
	if c.Info.Provider == "catalog" && c.Info.Catalog == "" {
		return fmt.Errorf("info.catalog is required when info.provider is catalog")
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	return nil
}

func (c *Config) applyProviderDefaults() {
	if c.Info.Model != "" {
		return
	}
	switch c.Info.Provider {
	case "gemini":
		c.Info.Model = "gemini-1.5-flash"
	case "openai":
		c.Info.Model = "gpt-4o"
	case "ollama":
		c.Info.Model = "mistral-small3.2:24b"
	}
}
