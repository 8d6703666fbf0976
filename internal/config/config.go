package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Provider names
const (
	ProviderCohere    = "cohere"
	ProviderAnthropic = "anthropic"
)

// Default values
const (
	DefaultProvider       = ProviderCohere
	DefaultEndpoint       = "https://api.cohere.ai/v1/generate"
	DefaultCohereModel    = "command-xlarge-nightly"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens      = 500
	DefaultRevealInterval = 10 * time.Millisecond
	DefaultDotsInterval   = 500 * time.Millisecond
	DefaultTimeout        = 60 * time.Second
)

const appDirName = "typechat"

// Config holds everything the chat client can be told from outside.
type Config struct {
	Provider       string        `toml:"provider"`
	Endpoint       string        `toml:"endpoint"`
	Model          string        `toml:"model"`
	MaxTokens      int           `toml:"max_tokens"`
	APIKey         string        `toml:"api_key"`
	StorePath      string        `toml:"store_path"`
	RevealInterval time.Duration `toml:"reveal_interval"`
	DotsInterval   time.Duration `toml:"dots_interval"`
	Timeout        time.Duration `toml:"timeout"`
}

// Default returns the built-in configuration. Endpoint, Model and StorePath
// are filled in by SetDefaults since they depend on the provider and the
// environment.
func Default() *Config {
	return &Config{
		Provider:       DefaultProvider,
		MaxTokens:      DefaultMaxTokens,
		RevealInterval: DefaultRevealInterval,
		DotsInterval:   DefaultDotsInterval,
		Timeout:        DefaultTimeout,
	}
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// DefaultPath returns the default location of config.toml.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// DefaultStorePath returns the default location of the conversation database.
func DefaultStorePath() string {
	dir, err := Dir()
	if err != nil {
		return filepath.Join(".", "typechat.db")
	}
	return filepath.Join(dir, "history.db")
}

// Load builds the configuration from defaults, a .env file, the TOML file at
// path (missing file is fine) and environment variables, in that order.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := LoadTOML(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies TYPECHAT_* variables on top of cfg.
func (c *Config) ApplyEnvOverrides() error {
	if v := env("TYPECHAT_PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := env("TYPECHAT_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := env("TYPECHAT_MODEL"); v != "" {
		c.Model = v
	}
	if v := env("TYPECHAT_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TYPECHAT_MAX_TOKENS: %w", err)
		}
		c.MaxTokens = n
	}
	if v := env("TYPECHAT_STORE"); v != "" {
		c.StorePath = v
	}
	if v := env("TYPECHAT_REVEAL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TYPECHAT_REVEAL_INTERVAL: %w", err)
		}
		c.RevealInterval = d
	}
	if v := env("TYPECHAT_API_KEY"); v != "" {
		c.APIKey = v
	} else if c.APIKey == "" && c.Provider == ProviderAnthropic {
		c.APIKey = env("ANTHROPIC_API_KEY")
	}
	return nil
}

// SetDefaults fills fields whose default depends on the rest of the config.
func (c *Config) SetDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderAnthropic:
			c.Model = DefaultAnthropicModel
		default:
			c.Model = DefaultCohereModel
		}
	}
	if c.Endpoint == "" && c.Provider == ProviderCohere {
		c.Endpoint = DefaultEndpoint
	}
	if c.StorePath == "" {
		c.StorePath = DefaultStorePath()
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderCohere, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.RevealInterval <= 0 {
		return fmt.Errorf("reveal_interval must be positive, got %s", c.RevealInterval)
	}
	if c.DotsInterval <= 0 {
		return fmt.Errorf("dots_interval must be positive, got %s", c.DotsInterval)
	}
	if c.Provider == ProviderCohere && c.Endpoint == "" {
		return errors.New("endpoint is required for the cohere provider")
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
