// Package practice runs a terminal quiz over a question bank.
package practice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizkit/internal/bank"
	"github.com/abhisek/quizkit/internal/grading"
	"github.com/abhisek/quizkit/internal/ui/components"
)

// Grader scores a free-text answer.
type Grader interface {
	Grade(ctx context.Context, ref, cand string, opts grading.Options) grading.Result
}

// Options configures a practice run.
type Options struct {
	// Count limits the number of questions. Zero means all.
	Count int

	// Shuffle randomizes question order.
	Shuffle bool

	// Rand is used for shuffling. Nil means a time-seeded source.
	Rand *rand.Rand

	// LexicalOnly grades short answers without the semantic tier.
	LexicalOnly bool

	// GradeTimeout bounds a single short-answer grade. Zero means 30s.
	GradeTimeout time.Duration
}

type phase int

const (
	phaseAnswering phase = iota
	phaseGrading
	phaseFeedback
	phaseSummary
)

// Summary is the tally of a practice run.
type Summary struct {
	MCQCorrect int
	MCQTotal   int

	// MCQUnscored counts answered MCQs whose bank record has no answer key.
	MCQUnscored int

	ShortTotal    int
	ShortScoreSum int
	ShortPassed   int
}

// AverageShortScore returns the mean short-answer score, or 0 when no
// short answer was graded.
func (s Summary) AverageShortScore() float64 {
	if s.ShortTotal == 0 {
		return 0
	}
	return float64(s.ShortScoreSum) / float64(s.ShortTotal)
}

// String renders the summary as plain text.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Multiple choice: %d / %d correct", s.MCQCorrect, s.MCQTotal)
	if s.MCQUnscored > 0 {
		fmt.Fprintf(&b, " (%d without answer key)", s.MCQUnscored)
	}
	b.WriteString("\n")
	if s.ShortTotal > 0 {
		fmt.Fprintf(&b, "Short answer: average %.1f%% over %d, %d passed",
			s.AverageShortScore(), s.ShortTotal, s.ShortPassed)
	} else {
		b.WriteString("Short answer: none answered")
	}
	return b.String()
}

// Select returns the questions for a run, shuffled and truncated per opts.
// The input slice is not modified.
func Select(questions bank.Collection, opts Options) bank.Collection {
	out := make(bank.Collection, len(questions))
	copy(out, questions)

	if opts.Shuffle {
		shuffle := rand.Shuffle
		if opts.Rand != nil {
			shuffle = opts.Rand.Shuffle
		}
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}

	if opts.Count > 0 && opts.Count < len(out) {
		out = out[:opts.Count]
	}
	return out
}

// Model is the Bubble Tea model for a practice run.
type Model struct {
	questions bank.Collection
	grader    Grader
	opts      Options

	index int
	phase phase

	mc    components.MultiChoice
	input components.TextInput
	last  grading.Result

	summary Summary
	width   int
	height  int
}

// New creates a practice model over questions, which should already be
// selected with Select.
func New(questions bank.Collection, grader Grader, opts Options) Model {
	if opts.GradeTimeout <= 0 {
		opts.GradeTimeout = 30 * time.Second
	}
	m := Model{
		questions: questions,
		grader:    grader,
		opts:      opts,
	}
	if len(questions) == 0 {
		m.phase = phaseSummary
		return m
	}
	m.loadQuestion()
	return m
}

// Summary returns the tally so far.
func (m Model) Summary() Summary {
	return m.summary
}

// Done reports whether the run reached the summary screen.
func (m Model) Done() bool {
	return m.phase == phaseSummary
}

func (m Model) current() bank.Question {
	return m.questions[m.index]
}

func (m *Model) loadQuestion() {
	q := m.current()
	m.phase = phaseAnswering
	m.last = grading.Result{}
	if q.Type == bank.TypeMCQ && len(q.Choices) > 0 {
		correct := -1
		if q.Answer != nil {
			correct = *q.Answer
		}
		m.mc = components.NewMultiChoice(q.Choices, correct)
		return
	}
	m.input = components.NewTextInput("Type your answer...", 0)
}

func (m Model) isMCQ() bool {
	q := m.current()
	return q.Type == bank.TypeMCQ && len(q.Choices) > 0
}

func (m Model) Init() tea.Cmd {
	if m.phase == phaseAnswering && !m.isMCQ() {
		return m.input.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case gradedMsg:
		return m.handleGraded(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseAnswering && !m.isMCQ() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseSummary:
		switch key {
		case "enter", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case phaseGrading:
		return m, nil

	case phaseFeedback:
		if key == "esc" {
			m.phase = phaseSummary
			return m, nil
		}
		return m.next()
	}

	if key == "esc" {
		m.phase = phaseSummary
		return m, nil
	}

	if m.isMCQ() {
		var cmd tea.Cmd
		m.mc, cmd = m.mc.Update(msg)
		if m.mc.Submitted {
			m.recordChoice()
			m.phase = phaseFeedback
		}
		return m, cmd
	}

	if key == "enter" {
		m.input.Submit()
		m.phase = phaseGrading
		return m, m.gradeCmd(m.index, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) recordChoice() {
	if !m.mc.HasAnswer() {
		m.summary.MCQUnscored++
		return
	}
	m.summary.MCQTotal++
	if m.mc.IsCorrect() {
		m.summary.MCQCorrect++
	}
}

func (m Model) gradeCmd(index int, answer string) tea.Cmd {
	q := m.questions[index]
	grader := m.grader
	opts := grading.Options{LexicalOnly: m.opts.LexicalOnly, QuestionID: q.ID}
	timeout := m.opts.GradeTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return gradedMsg{Index: index, Result: grader.Grade(ctx, q.Reference(), answer, opts)}
	}
}

func (m Model) handleGraded(msg gradedMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseGrading || msg.Index != m.index {
		return m, nil
	}
	m.last = msg.Result
	m.summary.ShortTotal++
	m.summary.ShortScoreSum += msg.Result.Score
	if msg.Result.Verdict == grading.VerdictPass {
		m.summary.ShortPassed++
	}
	m.phase = phaseFeedback
	return m, nil
}

func (m Model) next() (tea.Model, tea.Cmd) {
	if m.index+1 >= len(m.questions) {
		m.phase = phaseSummary
		return m, nil
	}
	m.index++
	m.loadQuestion()
	if !m.isMCQ() {
		return m, m.input.Init()
	}
	return m, nil
}
