package bank

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultDedupThreshold is the token Jaccard similarity at or above which
// two questions are treated as duplicates.
const DefaultDedupThreshold = 0.65

const dedupPunctuation = "\"'`-–—()[]{}.,:;?!/\\"

// NormalizeText folds diacritics, lower-cases, replaces punctuation with
// spaces, and collapses whitespace.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		if strings.ContainsRune(dedupPunctuation, r) {
			return ' '
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Tokens returns the distinct normalized tokens of s longer than one rune,
// in first-occurrence order.
func Tokens(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range strings.Fields(NormalizeText(s)) {
		if utf8.RuneCountInString(t) <= 1 || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Jaccard returns |a ∩ b| / |a ∪ b| over the token sets, or 0 when both
// are empty.
func Jaccard(a, b []string) float64 {
	as := make(map[string]bool, len(a))
	for _, t := range a {
		as[t] = true
	}
	bs := make(map[string]bool, len(b))
	for _, t := range b {
		bs[t] = true
	}

	inter := 0
	for t := range as {
		if bs[t] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// dedupContent is the text compared for duplicate detection.
func dedupContent(q Question) string {
	rest := ""
	if len(q.Choices) > 0 {
		rest = strings.Join(q.Choices, " ")
	} else if q.ShortAnswer != nil {
		rest = *q.ShortAnswer
	}
	return q.Question + " " + rest
}

// Dedupe drops questions whose content is a near-duplicate of an earlier
// kept question. The first occurrence always wins. It returns the kept
// questions and the number removed.
func Dedupe(c Collection, threshold float64) (Collection, int) {
	type fingerprint struct {
		normalized string
		tokens     []string
	}

	kept := make(Collection, 0, len(c))
	var prints []fingerprint

	for _, q := range c {
		content := dedupContent(q)
		fp := fingerprint{normalized: NormalizeText(content), tokens: Tokens(content)}

		dup := false
		for _, k := range prints {
			if fp.normalized != "" && k.normalized != "" &&
				(strings.Contains(fp.normalized, k.normalized) || strings.Contains(k.normalized, fp.normalized)) {
				dup = true
				break
			}
			if Jaccard(fp.tokens, k.tokens) >= threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, q)
		prints = append(prints, fp)
	}
	return kept, len(c) - len(kept)
}
