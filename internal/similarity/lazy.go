package similarity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/quizkit/internal/llm"
	"github.com/abhisek/quizkit/internal/store"
)

// BackendFunc builds the semantic backend. It runs at most once.
type BackendFunc func(ctx context.Context) (*llm.Backend, error)

// Lazy is the process-wide semantic tier. The backend is created on first
// use; if that fails the tier stays unavailable for the life of the
// process and every Score returns ErrUnavailable.
type Lazy struct {
	build   BackendFunc
	timeout time.Duration

	once   sync.Once
	scorer Scorer
	mode   string
}

// NewLazy returns a Lazy tier. timeout bounds each Score call; zero means
// no bound beyond the caller's context.
func NewLazy(build BackendFunc, timeout time.Duration) *Lazy {
	return &Lazy{build: build, timeout: timeout}
}

// NewLazyFromConfig builds the backend from cfg on first use. repo may be
// nil to skip LLM event logging.
func NewLazyFromConfig(cfg llm.Config, repo store.EventRepo) *Lazy {
	return NewLazy(func(ctx context.Context) (*llm.Backend, error) {
		return llm.NewBackend(ctx, cfg, repo)
	}, cfg.Timeout)
}

func (l *Lazy) init(ctx context.Context) {
	l.once.Do(func() {
		b, err := l.build(context.WithoutCancel(ctx))
		if err != nil {
			slog.Debug("semantic backend unavailable", "err", err)
			return
		}
		l.mode = b.Mode
		switch {
		case b.Embedder != nil:
			l.scorer = Semantic{Embedder: b.Embedder}
		case b.Judge != nil:
			l.scorer = Judge{Provider: b.Judge}
		}
		if l.scorer != nil {
			slog.Debug("semantic backend ready", "provider", b.Provider, "mode", b.Mode)
		}
	})
}

// Available reports whether the backend was created, creating it if this
// is the first call.
func (l *Lazy) Available(ctx context.Context) bool {
	l.init(ctx)
	return l.scorer != nil
}

// Mode returns the backend mode ("embed" or "judge"), or "" when unavailable.
func (l *Lazy) Mode(ctx context.Context) string {
	l.init(ctx)
	return l.mode
}

func (l *Lazy) Score(ctx context.Context, ref, cand string) (int, error) {
	if !l.Available(ctx) {
		return 0, ErrUnavailable
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.scorer.Score(ctx, ref, cand)
}
