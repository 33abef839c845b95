package similarity

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"
)

// DefaultMinLen drops tokens of two characters or fewer.
const DefaultMinLen = 2

// Jaccard scores token-set overlap. Texts are split on whitespace and
// lower-cased; tokens no longer than MinLen characters are ignored.
// Two texts without tokens score 0.
type Jaccard struct {
	MinLen int
}

func (j Jaccard) Score(_ context.Context, ref, cand string) (int, error) {
	a := j.tokens(ref)
	b := j.tokens(cand)

	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0, nil
	}
	return int(math.Round(float64(inter) / float64(union) * 100)), nil
}

func (j Jaccard) tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if utf8.RuneCountInString(w) > j.MinLen {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return set
}
