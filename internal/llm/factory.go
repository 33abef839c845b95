package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizkit/internal/store"
)

// Backend is a configured semantic backend. Exactly one of Embedder and
// Judge is set, depending on Mode.
type Backend struct {
	Provider string
	Mode     string
	Embedder Embedder
	Judge    Provider
}

// NewBackend creates the semantic backend selected by cfg, wrapped with
// retry and logging middleware. eventRepo may be nil to skip event logging.
func NewBackend(ctx context.Context, cfg Config, eventRepo store.EventRepo) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("no semantic provider configured")}
	}

	b := &Backend{Provider: cfg.Provider, Mode: cfg.EffectiveMode()}
	if cfg.Provider == ProviderMock {
		if b.Mode == ModeEmbed {
			b.Embedder = NewMockEmbedder()
		} else {
			b.Judge = NewMockProvider()
		}
		return b, nil
	}

	var err error
	if b.Mode == ModeEmbed {
		var base Embedder
		switch cfg.Provider {
		case ProviderOpenAI:
			base, err = NewOpenAIEmbedder(cfg.OpenAI)
		case ProviderGemini:
			base, err = NewGeminiEmbedder(ctx, cfg.Gemini)
		}
		if err != nil {
			return nil, fmt.Errorf("initializing %s embedder: %w", cfg.Provider, err)
		}
		// caller → retry → logging → base
		b.Embedder = WithEmbedRetry(WithEmbedLogging(base, cfg.Provider, eventRepo), cfg.Retry)
		return b, nil
	}

	var base Provider
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	b.Judge = WithRetry(WithLogging(base, cfg.Provider, eventRepo), cfg.Retry)
	return b, nil
}
