// Package similarity scores a free-text response against a reference
// answer on a 0-100 scale through an ordered chain of scoring tiers.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// ErrUnavailable is returned by a tier that cannot score the pair, for
// example because its backend is not configured.
var ErrUnavailable = errors.New("similarity tier unavailable")

// Tier names reported in Result.Tier.
const (
	TierSemantic = "semantic"
	TierFuzzy    = "fuzzy"
	TierJaccard  = "jaccard"
)

// Scorer rates how similar cand is to ref, from 0 to 100.
type Scorer interface {
	Score(ctx context.Context, ref, cand string) (int, error)
}

// Tier is a named Scorer in a Chain.
type Tier struct {
	Name   string
	Scorer Scorer
}

// Result is the outcome of a Chain scoring call.
type Result struct {
	Score int
	Tier  string
}

// Chain tries its tiers in order and returns the first successful score.
// A Jaccard tier always runs last, so Score never fails.
type Chain struct {
	tiers    []Tier
	fallback Jaccard
}

// NewChain builds a Chain over tiers, ending with the default Jaccard
// fallback.
func NewChain(tiers ...Tier) *Chain {
	return &Chain{tiers: tiers, fallback: Jaccard{MinLen: DefaultMinLen}}
}

// Lexical returns the chain used when only lexical comparison is wanted:
// fuzzy token-set ratio, then Jaccard.
func Lexical() *Chain {
	return NewChain(Tier{Name: TierFuzzy, Scorer: Fuzzy{}})
}

// Tiers lists the tier names in the order they are tried.
func (c *Chain) Tiers() []string {
	names := make([]string, 0, len(c.tiers)+1)
	for _, t := range c.tiers {
		names = append(names, t.Name)
	}
	return append(names, TierJaccard)
}

// Score rates cand against ref. When either text is blank only the
// Jaccard fallback runs.
func (c *Chain) Score(ctx context.Context, ref, cand string) Result {
	if strings.TrimSpace(ref) != "" && strings.TrimSpace(cand) != "" {
		for _, t := range c.tiers {
			s, err := t.Scorer.Score(ctx, ref, cand)
			if err == nil && (s < 0 || s > 100) {
				err = fmt.Errorf("score %d out of range", s)
			}
			if err != nil {
				slog.Debug("similarity tier skipped", "tier", t.Name, "err", err)
				continue
			}
			return Result{Score: s, Tier: t.Name}
		}
	}

	s, _ := c.fallback.Score(ctx, ref, cand)
	return Result{Score: s, Tier: TierJaccard}
}

// FromCosine maps a cosine similarity in [-1,1] to [0,100].
func FromCosine(cos float64) int {
	s := int(math.Round((cos + 1) / 2 * 100))
	return max(0, min(100, s))
}
