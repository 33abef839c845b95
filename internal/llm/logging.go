package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/quizkit/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging. provider names the
// backend ("openai", "anthropic", ...) in the recorded events.
func WithLogging(p Provider, provider string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: provider, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     string(PurposeFrom(ctx)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	appendEvent(ctx, l.eventRepo, data)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// LoggingEmbedder is a decorator that records every embedding request.
// Vectors are not stored; the request body lists the embedded texts.
type LoggingEmbedder struct {
	inner     Embedder
	provider  string
	eventRepo store.EventRepo
}

// WithEmbedLogging wraps an Embedder with event logging.
func WithEmbedLogging(e Embedder, provider string, repo store.EventRepo) Embedder {
	return &LoggingEmbedder{inner: e, provider: provider, eventRepo: repo}
}

func (l *LoggingEmbedder) Embed(ctx context.Context, texts []string) (*Embeddings, error) {
	start := time.Now()

	out, err := l.inner.Embed(ctx, texts)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     string(PurposeFrom(ctx)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: strings.Join(texts, "\n---\n"),
	}
	if out != nil {
		data.InputTokens = out.Usage.InputTokens
		if out.Model != "" {
			data.Model = out.Model
		}
		data.ResponseBody = fmt.Sprintf("%d vectors", len(out.Vectors))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	appendEvent(ctx, l.eventRepo, data)
	return out, err
}

func (l *LoggingEmbedder) ModelID() string {
	return l.inner.ModelID()
}

// appendEvent logs the event but never fails the request.
func appendEvent(ctx context.Context, repo store.EventRepo, data store.LLMRequestEventData) {
	if repo == nil {
		return
	}
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		slog.Warn("failed to log LLM request event", "purpose", data.Purpose, "err", err)
	}
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
