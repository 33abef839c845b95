package importer

import (
	"strconv"
	"strings"

	"github.com/abhisek/quizkit/internal/bank"
)

// answerSource records what set a block's answer index.
type answerSource int

const (
	sourceNone answerSource = iota
	sourceMarker
	sourceDeclaration
)

// Result is a built question plus diagnostics about how it was parsed.
type Result struct {
	Question bank.Question

	// Number is the question number declared in the header.
	Number int

	// Conflict reports that a '*' marker and an answer declaration named
	// different choices. The earlier one was kept.
	Conflict bool
}

// Build converts one block into a question record. It never fails:
// unrecognized lines become question or answer text.
//
// Answer resolution: the first marker or declaration sets the answer.
// A later declaration may replace an earlier declaration, but only while
// no marker has been seen; a later marker never replaces anything.
//
// A block with neither header text nor prompt lines is titled
// "Question N" after its header number.
func Build(b Block) Result {
	var (
		choices     []string
		prompt      []string
		shortAnswer []string
		answer      int
		source      = sourceNone
		markerSeen  bool
		conflict    bool
		structured  bool
	)

	for _, raw := range b.Body {
		l := Classify(raw)
		switch l.Kind {
		case KindChoice:
			structured = true
			choices = append(choices, l.Text)
			if !l.Marked {
				continue
			}
			idx := len(choices) - 1
			markerSeen = true
			if source == sourceNone {
				answer, source = idx, sourceMarker
			} else if answer != idx {
				conflict = true
			}

		case KindAnswer:
			structured = true
			switch {
			case source == sourceNone,
				source == sourceDeclaration && !markerSeen:
				answer, source = l.Index, sourceDeclaration
			case answer != l.Index:
				conflict = true
			}

		case KindShortAnswer:
			structured = true
			if l.Text != "" {
				shortAnswer = append(shortAnswer, l.Text)
			}

		default:
			if l.Text == "" {
				continue
			}
			// Text before any structured line continues the prompt;
			// text after it continues the answer.
			if structured {
				shortAnswer = append(shortAnswer, l.Text)
			} else {
				prompt = append(prompt, l.Text)
			}
		}
	}

	parts := make([]string, 0, 1+len(prompt))
	if b.Header != "" {
		parts = append(parts, b.Header)
	}
	parts = append(parts, prompt...)

	text := strings.Join(parts, " ")
	if text == "" {
		text = "Question " + strconv.Itoa(b.Number)
	}
	q := bank.Question{
		Question: text,
	}
	sa := strings.Join(shortAnswer, " ")

	if len(choices) > 0 {
		q.Type = bank.TypeMCQ
		q.Choices = choices
		if source != sourceNone && answer >= 0 && answer < len(choices) {
			q.Answer = bank.IntPtr(answer)
		}
		if sa != "" {
			q.ShortAnswer = bank.StringPtr(sa)
		}
	} else {
		q.Type = bank.TypeShort
		q.ShortAnswer = bank.StringPtr(sa)
	}

	return Result{Question: q, Number: b.Number, Conflict: conflict}
}
