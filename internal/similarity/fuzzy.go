package similarity

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// indel is Levenshtein with substitutions priced as a delete plus an
// insert, the distance behind the classic fuzzy "ratio".
var indel = levenshtein.NewParams().SubCost(2)

// Fuzzy scores order-insensitive token-set similarity. Both texts are
// lower-cased and stripped of punctuation before tokenizing, so word order
// and repeated words do not matter.
type Fuzzy struct{}

func (Fuzzy) Score(_ context.Context, ref, cand string) (int, error) {
	return TokenSetRatio(ref, cand), nil
}

// TokenSetRatio compares the shared tokens of a and b against each side's
// remainder and returns the best of the three pairwise ratios. When one
// token set contains the other the ratio is 100.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			sect = append(sect, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	s := strings.Join(sect, " ")
	da := strings.Join(onlyA, " ")
	db := strings.Join(onlyB, " ")

	best := ratio(da, db)
	if s == "" {
		return best
	}
	best = max(best, ratio(s, joinNonEmpty(s, da)))
	best = max(best, ratio(s, joinNonEmpty(s, db)))
	return best
}

// ratio is 100 * (1 - indel distance / total length), rounded.
func ratio(a, b string) int {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	d := levenshtein.Distance(a, b, indel)
	return int(math.Round(100 * float64(total-d) / float64(total)))
}

func joinNonEmpty(a, b string) string {
	if b == "" {
		return a
	}
	return a + " " + b
}

func tokenSet(s string) map[string]struct{} {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	set := make(map[string]struct{})
	for _, w := range strings.Fields(clean) {
		set[w] = struct{}{}
	}
	return set
}
