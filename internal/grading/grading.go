// Package grading turns a similarity score into a verdict, feedback and
// study tips.
package grading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abhisek/quizkit/internal/similarity"
	"github.com/abhisek/quizkit/internal/store"
)

// PassThreshold is the lowest passing score.
const PassThreshold = 70

// Verdicts.
const (
	VerdictPass = "Pass"
	VerdictFail = "Fail"
)

const maxKeywords = 8

var genericTips = []string{
	"Use spaced repetition: study in short sessions, interleave topics and revisit them several times.",
	"Make flashcards for the key ideas and quiz yourself by answering each one aloud in under a minute.",
}

// Result is the outcome of grading one response.
type Result struct {
	Score    int      `json:"score"`
	Verdict  string   `json:"verdict"`
	Feedback string   `json:"feedback"`
	Tips     []string `json:"tips"`

	// Tier names the similarity tier that produced Score.
	Tier string `json:"-"`
}

// Options adjusts a single grading call.
type Options struct {
	// LexicalOnly skips the semantic tier.
	LexicalOnly bool

	// QuestionID ties the recorded grade to a bank question. Zero if none.
	QuestionID int
}

// Recorder persists grading results.
type Recorder interface {
	AppendGrade(ctx context.Context, data store.GradeEventData) error
}

// Service grades responses against reference answers.
type Service struct {
	chain   *similarity.Chain
	lexical *similarity.Chain
	history Recorder
}

// Option configures a Service.
type Option func(*Service)

// WithHistory records every result with r. Recording failures are logged
// and never fail a grade.
func WithHistory(r Recorder) Option {
	return func(s *Service) { s.history = r }
}

// NewService returns a Service scoring with chain. A nil chain means
// lexical scoring only.
func NewService(chain *similarity.Chain, opts ...Option) *Service {
	s := &Service{chain: chain, lexical: similarity.Lexical()}
	if s.chain == nil {
		s.chain = s.lexical
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Grade scores cand against ref and derives the verdict, feedback and tips.
func (s *Service) Grade(ctx context.Context, ref, cand string, opts Options) Result {
	chain := s.chain
	if opts.LexicalOnly {
		chain = s.lexical
	}
	scored := chain.Score(ctx, ref, cand)

	res := Result{
		Score:    scored.Score,
		Verdict:  VerdictFor(scored.Score),
		Feedback: Feedback(scored.Score),
		Tips:     Tips(ref),
		Tier:     scored.Tier,
	}

	if s.history != nil {
		err := s.history.AppendGrade(ctx, store.GradeEventData{
			RequestID:  uuid.NewString(),
			QuestionID: opts.QuestionID,
			Reference:  ref,
			Response:   cand,
			Score:      res.Score,
			Verdict:    res.Verdict,
			Tier:       res.Tier,
		})
		if err != nil {
			slog.Warn("failed to record grade", "err", err)
		}
	}
	return res
}

// VerdictFor returns VerdictPass for scores at or above PassThreshold.
func VerdictFor(score int) string {
	if score >= PassThreshold {
		return VerdictPass
	}
	return VerdictFail
}

// Feedback renders the score for display.
func Feedback(score int) string {
	return fmt.Sprintf("Similarity: %d%%", score)
}

// Keywords returns the distinct words of ref longer than three characters,
// in first-occurrence order, at most eight.
func Keywords(ref string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range strings.Fields(ref) {
		if utf8.RuneCountInString(w) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// Tips returns study tips for ref: a keyword tip when ref has keywords,
// followed by the generic tips.
func Tips(ref string) []string {
	var tips []string
	if kws := Keywords(ref); len(kws) > 0 {
		tips = append(tips, "Break the answer into small chunks and rehearse or rewrite them: "+strings.Join(kws, ", "))
	}
	return append(tips, genericTips...)
}
