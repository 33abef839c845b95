package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/quizkit/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"similarity":0.5}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"similarity":-1}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"similarity":0.5}` {
		t.Fatalf("unexpected content %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"similarity":-1}` {
		t.Fatalf("unexpected content %s", resp2.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockEmbedder_LetterVectors(t *testing.T) {
	mock := NewMockEmbedder()
	out, err := mock.Embed(context.Background(), []string{"Ab", "ba!", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(out.Vectors))
	}
	if out.Vectors[0][0] != 1 || out.Vectors[0][1] != 1 {
		t.Fatalf("unexpected vector %v", out.Vectors[0])
	}
	for i := range out.Vectors[0] {
		if out.Vectors[0][i] != out.Vectors[1][i] {
			t.Fatalf("vectors differ at %d", i)
		}
	}
	for _, x := range out.Vectors[2] {
		if x != 0 {
			t.Fatal("expected zero vector for empty text")
		}
	}
}

func TestMockEmbedder_QueuedErrorsFirst(t *testing.T) {
	mock := NewMockEmbedder(&ErrRateLimit{Err: errors.New("429")})
	if _, err := mock.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected queued error")
	}
	if _, err := mock.Embed(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeGradeJudge)
	if p := PurposeFrom(ctx); p != PurposeGradeJudge {
		t.Fatalf("expected %q, got %q", PurposeGradeJudge, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{Provider: ProviderNone}, false},
		{"empty", Config{}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"anthropic embed mode", Config{Provider: ProviderAnthropic, Mode: ModeEmbed, Anthropic: AnthropicConfig{APIKey: "sk-test"}}, true},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"openai with key", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"openai judge", Config{Provider: ProviderOpenAI, Mode: ModeJudge, OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"gemini without key", Config{Provider: ProviderGemini}, true},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"bad mode", Config{Provider: ProviderMock, Mode: "vibes"}, true},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_EffectiveMode(t *testing.T) {
	if m := (Config{Provider: ProviderAnthropic}).EffectiveMode(); m != ModeJudge {
		t.Fatalf("anthropic mode = %q, want judge", m)
	}
	if m := (Config{Provider: ProviderGemini}).EffectiveMode(); m != ModeEmbed {
		t.Fatalf("gemini mode = %q, want embed", m)
	}
	if m := (Config{Provider: ProviderOpenAI, Mode: ModeJudge}).EffectiveMode(); m != ModeJudge {
		t.Fatalf("explicit mode = %q, want judge", m)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QUIZKIT_SEMANTIC_PROVIDER", "gemini")
	t.Setenv("QUIZKIT_GEMINI_API_KEY", "g-key")
	t.Setenv("QUIZKIT_GEMINI_EMBEDDING_MODEL", "text-embedding-004")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Gemini.EmbeddingModel != "text-embedding-004" {
		t.Fatalf("embedding model = %q", cfg.Gemini.EmbeddingModel)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("expected default retry attempts, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestDiscoverConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderAnthropic {
		t.Fatalf("expected anthropic, got %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, _ = DiscoverConfig()
	if cfg.Provider != ProviderGemini {
		t.Fatalf("expected gemini to win over anthropic, got %q", cfg.Provider)
	}
}

func TestNewBackend_None(t *testing.T) {
	_, err := NewBackend(context.Background(), DefaultConfig(), nil)
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNewBackend_Modes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	b, err := NewBackend(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Embedder == nil || b.Judge != nil {
		t.Fatalf("mock embed backend = %+v", b)
	}

	cfg = DefaultConfig()
	cfg.Provider = ProviderAnthropic
	cfg.Anthropic.APIKey = "sk-test"
	b, err = NewBackend(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Judge == nil || b.Embedder != nil || b.Mode != ModeJudge {
		t.Fatalf("anthropic backend = %+v", b)
	}
	if b.Judge.ModelID() != "claude-haiku-4-5-20251001" {
		t.Fatalf("judge model = %q", b.Judge.ModelID())
	}

	cfg = DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.OpenAI.APIKey = "sk-test"
	b, err = NewBackend(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Embedder == nil || b.Embedder.ModelID() != "text-embedding-3-small" {
		t.Fatalf("openai backend = %+v", b)
	}
}

func TestLogging_RecordsEvents(t *testing.T) {
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()
	repo := s.EventRepo()

	ctx := WithPurpose(context.Background(), PurposeGradeJudge)
	judge := WithLogging(NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"similarity":1}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
	), "mock", repo)
	if _, err := judge.Generate(ctx, Request{System: "rate", Messages: []Message{{Role: RoleUser, Content: "a vs b"}}}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Queue is now empty, so this call fails and is still recorded.
	if _, err := judge.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error from empty queue")
	}

	emb := WithEmbedLogging(NewMockEmbedder(), "mock", repo)
	if _, err := emb.Embed(WithPurpose(context.Background(), PurposeGradeEmbed), []string{"a", "b"}); err != nil {
		t.Fatalf("embed: %v", err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Purpose != string(PurposeGradeEmbed) || events[0].ResponseBody != "2 vectors" {
		t.Fatalf("embed event = %+v", events[0].LLMRequestEventData)
	}
	if events[1].Success || events[1].ErrorMessage == "" {
		t.Fatalf("failed event = %+v", events[1].LLMRequestEventData)
	}
	if !events[2].Success || events[2].InputTokens != 7 || events[2].Purpose != string(PurposeGradeJudge) {
		t.Fatalf("judge event = %+v", events[2].LLMRequestEventData)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("text-embedding-3-small")
	if c == nil {
		t.Fatal("expected pricing for text-embedding-3-small")
	}
	if got := c.Cost(1_000_000, 0); got != 0.02 {
		t.Fatalf("cost = %v, want 0.02", got)
	}
	if LookupCost("mock") != nil {
		t.Fatal("expected nil pricing for unknown model")
	}
}
