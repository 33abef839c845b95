package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Semantic scoring modes.
const (
	// ModeEmbed compares embedding vectors by cosine similarity.
	ModeEmbed = "embed"
	// ModeJudge asks a chat model to rate similarity on the cosine scale.
	ModeJudge = "judge"
)

// Config holds the semantic backend configuration.
type Config struct {
	// Provider selects the backend.
	// Values: "none", "openai", "gemini", "anthropic", "mock"
	Provider string `yaml:"provider"`

	// Mode is "embed" or "judge". Empty picks the provider's natural mode:
	// embeddings where the provider has them, the judge otherwise.
	Mode string `yaml:"mode"`

	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Retry     RetryConfig     `yaml:"retry"`

	// Timeout bounds a single scoring call, including retries. Default: 15s.
	Timeout time.Duration `yaml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"` // Optional. Proxies and test servers.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`           // Default: "gpt-4o-mini"
	EmbeddingModel string `yaml:"embedding_model"` // Default: "text-embedding-3-small"
	BaseURL        string `yaml:"base_url"`        // Optional. OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`           // Default: "gemini-flash"
	EmbeddingModel string `yaml:"embedding_model"` // Default: "gemini-embedding"
	BaseURL        string `yaml:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults. The semantic
// backend is disabled until a provider is chosen.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderNone,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		Gemini: GeminiConfig{
			Model:          "gemini-flash",
			EmbeddingModel: "gemini-embedding",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 15 * time.Second,
	}
}

// ApplyEnv overrides cfg with QUIZKIT_* environment variables that are set.
func ApplyEnv(cfg Config) Config {
	if p := os.Getenv("QUIZKIT_SEMANTIC_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if m := os.Getenv("QUIZKIT_SEMANTIC_MODE"); m != "" {
		cfg.Mode = m
	}

	if k := os.Getenv("QUIZKIT_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("QUIZKIT_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}
	if u := os.Getenv("QUIZKIT_ANTHROPIC_BASE_URL"); u != "" {
		cfg.Anthropic.BaseURL = u
	}

	if k := os.Getenv("QUIZKIT_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("QUIZKIT_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if m := os.Getenv("QUIZKIT_OPENAI_EMBEDDING_MODEL"); m != "" {
		cfg.OpenAI.EmbeddingModel = m
	}
	if u := os.Getenv("QUIZKIT_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("QUIZKIT_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("QUIZKIT_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}
	if m := os.Getenv("QUIZKIT_GEMINI_EMBEDDING_MODEL"); m != "" {
		cfg.Gemini.EmbeddingModel = m
	}

	return cfg
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	return ApplyEnv(DefaultConfig())
}

// DiscoverConfig probes standard API key env vars in priority order
// (OpenAI → Gemini → Anthropic) and returns a Config for the first
// provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// EffectiveMode resolves an empty Mode to the provider's natural mode.
func (c Config) EffectiveMode() string {
	if c.Mode != "" {
		return c.Mode
	}
	if c.Provider == ProviderAnthropic {
		return ModeJudge
	}
	return ModeEmbed
}

// Enabled reports whether a semantic backend is selected at all.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks that the selected provider has its required API key set
// and supports the selected mode.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderNone:
		return nil
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("QUIZKIT_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		if c.EffectiveMode() == ModeEmbed {
			return fmt.Errorf("the anthropic provider has no embeddings API; use mode %q", ModeJudge)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("QUIZKIT_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("QUIZKIT_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown semantic provider: %q", c.Provider)
	}

	switch c.EffectiveMode() {
	case ModeEmbed, ModeJudge:
	default:
		return fmt.Errorf("unknown semantic mode: %q", c.Mode)
	}
	return nil
}

// resolveModel maps a friendly model name to a provider model ID. Names
// missing from models are taken as literal IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
