package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the classification of a single import line.
type Kind int

const (
	KindBody Kind = iota
	KindHeader
	KindChoice
	KindAnswer
	KindShortAnswer
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindChoice:
		return "choice"
	case KindAnswer:
		return "answer"
	case KindShortAnswer:
		return "short-answer"
	default:
		return "body"
	}
}

// Line is a classified line of import text.
type Line struct {
	Kind Kind

	// Raw is the original line.
	Raw string

	// Number is the declared question number (headers only).
	Number int

	// Text is the payload: header text, choice text, short answer text,
	// or the trimmed body line.
	Text string

	// Label is the zero-based choice label (A=0) for choices.
	Label int

	// Marked reports a leading '*' on a choice line.
	Marked bool

	// Index is the zero-based answer index declared by an answer line.
	// It may be out of range for the question's choices.
	Index int
}

var (
	// A digit must not follow the period, so "3.14 ..." stays body text.
	headerRe = regexp.MustCompile(`^\s*(\d+)\.(\D.*)?$`)

	shortAnswerRe = regexp.MustCompile(`(?i)^\s*(?:shortanswer:|đáp án ngắn:)\s*(.*)$`)

	answerRe = regexp.MustCompile(`(?i)^\s*(?:answer|ans|correct|key|đáp án)\s*[:\-]?\s*([a-d]|\d+)\b`)

	choiceRe = regexp.MustCompile(`^\s*(\*?)\s*([A-Da-d])\.\s*(.*)$`)
)

// rule classifies a line, reporting false when it does not apply.
type rule func(raw string) (Line, bool)

// rules are tried in order; the first match wins. Short-answer and answer
// declarations come before choices so keyword lines are never read as
// lettered choices.
var rules = []rule{
	matchHeader,
	matchShortAnswer,
	matchAnswer,
	matchChoice,
}

// Classify determines what kind of line raw is. Lines that match no rule
// are body text; classification never fails.
func Classify(raw string) Line {
	for _, r := range rules {
		if l, ok := r(raw); ok {
			return l
		}
	}
	return Line{Kind: KindBody, Raw: raw, Text: strings.TrimSpace(raw)}
}

func matchHeader(raw string) (Line, bool) {
	m := headerRe.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Absurdly long digit runs are not question numbers.
		return Line{}, false
	}
	return Line{Kind: KindHeader, Raw: raw, Number: n, Text: strings.TrimSpace(m[2])}, true
}

func matchShortAnswer(raw string) (Line, bool) {
	m := shortAnswerRe.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, false
	}
	return Line{Kind: KindShortAnswer, Raw: raw, Text: strings.TrimSpace(m[1])}, true
}

func matchAnswer(raw string) (Line, bool) {
	m := answerRe.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, false
	}
	v := m[1]
	if n, err := strconv.Atoi(v); err == nil {
		// Numbers are 1-based choice positions.
		return Line{Kind: KindAnswer, Raw: raw, Text: v, Index: n - 1}, true
	}
	if len(v) != 1 {
		return Line{}, false
	}
	return Line{Kind: KindAnswer, Raw: raw, Text: v, Index: letterIndex(v[0])}, true
}

func matchChoice(raw string) (Line, bool) {
	m := choiceRe.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, false
	}
	return Line{
		Kind:   KindChoice,
		Raw:    raw,
		Text:   strings.TrimSpace(m[3]),
		Label:  letterIndex(m[2][0]),
		Marked: m[1] == "*",
	}, true
}

// letterIndex maps A-D (either case) to 0-3.
func letterIndex(b byte) int {
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	return int(b - 'A')
}
