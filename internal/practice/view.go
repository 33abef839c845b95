package practice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizkit/internal/grading"
	"github.com/abhisek/quizkit/internal/ui/components"
	"github.com/abhisek/quizkit/internal/ui/layout"
	"github.com/abhisek/quizkit/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title, status := "Summary", ""
	if m.phase != phaseSummary {
		title = "Practice"
		status = fmt.Sprintf("%d / %d", m.index+1, len(m.questions))
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.content(), footer, m.width, m.height))
	return v
}

func (m Model) keyHints() []layout.KeyHint {
	switch m.phase {
	case phaseSummary:
		return []layout.KeyHint{{Key: "Enter", Description: "Quit"}}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Next"},
			{Key: "Esc", Description: "Finish"},
		}
	case phaseGrading:
		return nil
	}
	if m.isMCQ() {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "A-D", Description: "Pick"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Finish"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Finish"},
	}
}

// content renders the body of the current phase without frame chrome.
func (m Model) content() string {
	if m.phase == phaseSummary {
		return m.renderSummary()
	}

	q := m.current()
	var b strings.Builder

	progress := components.NewProgressBar("", float64(m.index)/float64(len(m.questions)), true, 40)
	b.WriteString(progress.View() + "\n\n")
	b.WriteString(theme.Label.Render(fmt.Sprintf("Question %d", q.ID)) + "\n")
	b.WriteString(theme.Body.Bold(true).Render(q.Question) + "\n\n")

	if m.isMCQ() {
		b.WriteString(m.mc.View())
		if m.phase == phaseFeedback {
			b.WriteString("\n" + m.renderChoiceFeedback())
		}
		return b.String()
	}

	b.WriteString(m.input.View() + "\n")
	switch m.phase {
	case phaseGrading:
		b.WriteString("\n" + theme.Hint.Render("Grading..."))
	case phaseFeedback:
		b.WriteString("\n" + renderGrade(m.last, q.Reference()))
	}
	return b.String()
}

func (m Model) renderChoiceFeedback() string {
	switch {
	case !m.mc.HasAnswer():
		return theme.Hint.Render("This question has no answer key.")
	case m.mc.IsCorrect():
		return theme.Correct.Render("Correct!")
	default:
		return theme.Incorrect.Render(fmt.Sprintf("Wrong. The answer is %s.", components.Label(m.mc.CorrectIndex)))
	}
}

func renderGrade(res grading.Result, reference string) string {
	var b strings.Builder
	pass := res.Verdict == grading.VerdictPass
	b.WriteString(theme.VerdictStyle(pass).Render(res.Verdict) + "  " + theme.Body.Render(res.Feedback) + "\n")
	if reference != "" {
		b.WriteString(theme.Subtitle.Render("Expected: "+reference) + "\n")
	}
	if !pass {
		for _, tip := range res.Tips {
			b.WriteString(theme.Hint.Render("• "+tip) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderSummary() string {
	s := m.summary
	var b strings.Builder
	b.WriteString(theme.Title.Render("Practice complete") + "\n\n")
	if len(m.questions) == 0 {
		b.WriteString(theme.Hint.Render("The question bank is empty.") + "\n")
		return b.String()
	}
	if s.MCQTotal > 0 {
		bar := components.NewProgressBar("Multiple choice", float64(s.MCQCorrect)/float64(s.MCQTotal), true, 50)
		b.WriteString(bar.View() + "\n")
	}
	if s.ShortTotal > 0 {
		bar := components.NewProgressBar("Short answer   ", s.AverageShortScore()/100, true, 50)
		b.WriteString(bar.View() + "\n")
	}
	b.WriteString("\n" + theme.Body.Render(s.String()) + "\n")
	return b.String()
}
