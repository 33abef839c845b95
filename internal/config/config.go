// Package config loads quizkit settings from defaults, an optional YAML
// file and QUIZKIT_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizkit/internal/bank"
	"github.com/abhisek/quizkit/internal/llm"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "quizkit.yaml"

// Config holds all quizkit settings.
type Config struct {
	// BankPath is the question bank JSON file.
	BankPath string `yaml:"bank"`

	// HTTPAddr is the grading server listen address.
	HTTPAddr string `yaml:"http_addr"`

	// DBPath is the SQLite file for grading history. Empty means the
	// default XDG location.
	DBPath string `yaml:"db"`

	// CORSOrigins lists allowed origins for the grading server.
	CORSOrigins []string `yaml:"cors_origins"`

	// DedupThreshold is the token Jaccard ratio at which two questions
	// count as duplicates.
	DedupThreshold float64 `yaml:"dedup_threshold"`

	// History records every grade in the database.
	History bool `yaml:"history"`

	// Semantic configures the embedding or judge tier. An empty provider
	// is resolved from the standard *_API_KEY variables.
	Semantic llm.Config `yaml:"semantic"`
}

// DefaultConfig returns a Config with defaults for every field.
func DefaultConfig() Config {
	sem := llm.DefaultConfig()
	sem.Provider = ""
	return Config{
		BankPath:       "data/questions.json",
		HTTPAddr:       "127.0.0.1:5000",
		CORSOrigins:    []string{"*"},
		DedupThreshold: bank.DefaultDedupThreshold,
		History:        true,
		Semantic:       sem,
	}
}

// Load builds the effective Config. path names a YAML file that must
// exist; when path is empty, DefaultFile is used if present.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("QUIZKIT_CONFIG")
	}
	required := path != ""
	if !required {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg = ApplyEnv(cfg)
	cfg.Semantic = resolveSemantic(cfg.Semantic)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the QUIZKIT_* variables that are set.
func ApplyEnv(cfg Config) Config {
	cfg.BankPath = envOr("QUIZKIT_BANK", cfg.BankPath)
	cfg.HTTPAddr = envOr("QUIZKIT_HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBPath = envOr("QUIZKIT_DB", cfg.DBPath)
	cfg.CORSOrigins = csvOr("QUIZKIT_CORS_ORIGINS", cfg.CORSOrigins)
	cfg.History = envBool("QUIZKIT_HISTORY", cfg.History)
	cfg.Semantic = llm.ApplyEnv(cfg.Semantic)
	return cfg
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BankPath) == "" {
		return fmt.Errorf("bank path must not be empty")
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("dedup threshold must be in (0, 1], got %v", c.DedupThreshold)
	}
	if err := c.Semantic.Validate(); err != nil {
		return fmt.Errorf("semantic: %w", err)
	}
	return nil
}

// resolveSemantic fills an unset provider from the standard API key
// variables, or disables the tier when none is set.
func resolveSemantic(sem llm.Config) llm.Config {
	if sem.Provider != "" {
		return sem
	}
	found, ok := llm.DiscoverConfig()
	if !ok {
		sem.Provider = llm.ProviderNone
		return sem
	}

	sem.Provider = found.Provider
	switch found.Provider {
	case llm.ProviderOpenAI:
		sem.OpenAI.APIKey = firstNonEmpty(sem.OpenAI.APIKey, found.OpenAI.APIKey)
	case llm.ProviderGemini:
		sem.Gemini.APIKey = firstNonEmpty(sem.Gemini.APIKey, found.Gemini.APIKey)
	case llm.ProviderAnthropic:
		sem.Anthropic.APIKey = firstNonEmpty(sem.Anthropic.APIKey, found.Anthropic.APIKey)
	}
	return sem
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
