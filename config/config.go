// Package config holds the read-only process configuration: provider
// credentials, model selection and logging. It is loaded once at startup
// and passed explicitly to everything that needs it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/bububa/instructor-go/pkg/instructor"
	"gopkg.in/yaml.v3"
)

// Provider is a supported language model provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderCohere    Provider = "cohere"
)

// Defaults applied before the file and the environment are read.
const (
	DefaultProvider    = ProviderOpenAI
	DefaultModel       = "gpt-3.5-turbo-1106"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 1024
	DefaultLogLevel    = "info"
)

// Config is the process configuration. Load builds it once at startup, after
// that it is read only.
type Config struct {
	// Provider the language model provider to run the agents on
	Provider Provider `yaml:"provider"`
	// Model the model name requested from the provider
	Model string `yaml:"model"`
	// BaseURL optional override of the provider endpoint
	BaseURL string `yaml:"base_url"`
	// Temperature sampling temperature for the agents
	Temperature float32 `yaml:"temperature"`
	// MaxTokens completion token cap for the agents
	MaxTokens int `yaml:"max_tokens"`
	// OpenAIKey api key for the openai provider
	OpenAIKey string `yaml:"openai_api_key"`
	// AnthropicKey api key for the anthropic provider
	AnthropicKey string `yaml:"anthropic_api_key"`
	// CohereKey api key for the cohere provider
	CohereKey string `yaml:"cohere_api_key"`
	// TMDBToken the TMDB API read access token
	TMDBToken string `yaml:"tmdb_api_read_access_token"`
	// LogLevel zap level name, debug info warn or error
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Provider:    DefaultProvider,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		LogLevel:    DefaultLogLevel,
	}
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(bs, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Provider = Provider(v)
	}
	setString(&c.Model, "LLM_MODEL")
	setString(&c.BaseURL, "LLM_BASE_URL")
	setString(&c.OpenAIKey, "OPENAI_API_KEY")
	setString(&c.AnthropicKey, "ANTHROPIC_API_KEY")
	setString(&c.CohereKey, "COHERE_API_KEY")
	setString(&c.TMDBToken, "TMDB_API_READ_ACCESS_TOKEN")
	setString(&c.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Temperature = float32(f)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
}

// ModelKey returns the credential for the selected provider.
func (c *Config) ModelKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicKey
	case ProviderCohere:
		return c.CohereKey
	default:
		return c.OpenAIKey
	}
}

// InstructorProvider maps the provider to its instructor constant.
func (c *Config) InstructorProvider() instructor.Provider {
	switch c.Provider {
	case ProviderAnthropic:
		return instructor.ProviderAnthropic
	case ProviderCohere:
		return instructor.ProviderCohere
	default:
		return instructor.ProviderOpenAI
	}
}

// Validate checks the configuration is runnable. Both credentials are
// required; a missing one is a startup fatal, never a per request error.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderCohere:
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.ModelKey() == "" {
		return fmt.Errorf("missing api key for provider %q", c.Provider)
	}
	if c.TMDBToken == "" {
		return errors.New("missing TMDB_API_READ_ACCESS_TOKEN")
	}
	if c.Model == "" {
		return errors.New("missing model name")
	}
	return nil
}
