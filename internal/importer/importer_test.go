package importer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/abhisek/quizkit/internal/bank"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line   string
		kind   Kind
		text   string
		number int
		label  int
		marked bool
		index  int
	}{
		{line: "1. What is 2+2?", kind: KindHeader, number: 1, text: "What is 2+2?"},
		{line: "  12.", kind: KindHeader, number: 12},
		{line: "3.(0.200 point)", kind: KindHeader, number: 3, text: "(0.200 point)"},
		{line: "3.14 is close to pi", kind: KindBody, text: "3.14 is close to pi"},
		{line: "A. 3", kind: KindChoice, text: "3", label: 0},
		{line: "*B. 4", kind: KindChoice, text: "4", label: 1, marked: true},
		{line: "  * c. five", kind: KindChoice, text: "five", label: 2, marked: true},
		{line: "D.six", kind: KindChoice, text: "six", label: 3},
		{line: "E. out of range", kind: KindBody, text: "E. out of range"},
		{line: "Answer: B", kind: KindAnswer, text: "B", index: 1},
		{line: "answer - c", kind: KindAnswer, text: "c", index: 2},
		{line: "Ans: 3", kind: KindAnswer, text: "3", index: 2},
		{line: "Correct: D", kind: KindAnswer, text: "D", index: 3},
		{line: "KEY A", kind: KindAnswer, text: "A", index: 0},
		{line: "Đáp án: A", kind: KindAnswer, text: "A", index: 0},
		{line: "Answer: B. Paris", kind: KindAnswer, text: "B", index: 1},
		{line: "Answer: because it is", kind: KindBody, text: "Answer: because it is"},
		{line: "Keyboard layouts differ", kind: KindBody, text: "Keyboard layouts differ"},
		{line: "ShortAnswer: the mitochondria", kind: KindShortAnswer, text: "the mitochondria"},
		{line: "shortanswer:   42 ", kind: KindShortAnswer, text: "42"},
		{line: "Đáp án ngắn: Hà Nội", kind: KindShortAnswer, text: "Hà Nội"},
		{line: "Đáp án ngắn: A", kind: KindShortAnswer, text: "A"},
		{line: "just some text", kind: KindBody, text: "just some text"},
		{line: "", kind: KindBody},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Classify(tt.line)
			if got.Kind != tt.kind {
				t.Fatalf("Classify(%q).Kind = %s, want %s", tt.line, got.Kind, tt.kind)
			}
			if got.Text != tt.text {
				t.Errorf("Text = %q, want %q", got.Text, tt.text)
			}
			switch tt.kind {
			case KindHeader:
				if got.Number != tt.number {
					t.Errorf("Number = %d, want %d", got.Number, tt.number)
				}
			case KindChoice:
				if got.Label != tt.label || got.Marked != tt.marked {
					t.Errorf("Label/Marked = %d/%v, want %d/%v", got.Label, got.Marked, tt.label, tt.marked)
				}
			case KindAnswer:
				if got.Index != tt.index {
					t.Errorf("Index = %d, want %d", got.Index, tt.index)
				}
			}
		})
	}
}

func TestSegment(t *testing.T) {
	lines := []string{
		"preamble is dropped",
		"",
		"1. First",
		"A. a",
		"",
		"2. Second",
		"3.",
	}

	blocks := Segment(lines)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].Number != 1 || blocks[0].Header != "First" {
		t.Fatalf("unexpected first block: %+v", blocks[0])
	}
	if !reflect.DeepEqual(blocks[0].Body, []string{"A. a", ""}) {
		t.Fatalf("unexpected first body: %q", blocks[0].Body)
	}
	if len(blocks[1].Body) != 0 || len(blocks[2].Body) != 0 {
		t.Fatalf("expected empty bodies, got %q and %q", blocks[1].Body, blocks[2].Body)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("\uFEFF1. First\r\nA. a\r\n")
	want := []string{"1. First", "A. a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if lines := SplitLines("\uFEFF"); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestSegment_NoHeaders(t *testing.T) {
	if blocks := Segment([]string{"A. x", "Answer: A"}); len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %d", len(blocks))
	}
}

func TestBuild_MarkerAnswer(t *testing.T) {
	r := Build(blockOf("1. What is 2+2?", "A. 3", "*B. 4", "C. 5", "D. 6"))
	q := r.Question

	if q.Type != bank.TypeMCQ {
		t.Fatalf("expected mcq, got %s", q.Type)
	}
	if !reflect.DeepEqual(q.Choices, []string{"3", "4", "5", "6"}) {
		t.Fatalf("unexpected choices: %q", q.Choices)
	}
	if q.Answer == nil || *q.Answer != 1 {
		t.Fatalf("expected answer 1, got %v", q.Answer)
	}
	if q.Question != "What is 2+2?" {
		t.Fatalf("unexpected question %q", q.Question)
	}
	if q.ShortAnswer != nil {
		t.Fatalf("expected nil shortAnswer, got %q", *q.ShortAnswer)
	}
	if r.Conflict {
		t.Fatal("unexpected conflict")
	}
}

func TestBuild_DeclarationBeforeChoices(t *testing.T) {
	q := Build(blockOf("2. Capital of France?", "Answer: B", "A. Lyon", "B. Paris")).Question
	if q.Answer == nil || *q.Answer != 1 {
		t.Fatalf("expected answer 1, got %v", q.Answer)
	}
}

func TestBuild_NumericDeclaration(t *testing.T) {
	q := Build(blockOf("1. Pick", "A. x", "B. y", "C. z", "Ans: 3")).Question
	if q.Answer == nil || *q.Answer != 2 {
		t.Fatalf("expected answer 2, got %v", q.Answer)
	}
}

func TestBuild_AnswerTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		want     int
		conflict bool
	}{
		{
			name:     "marker before declaration",
			lines:    []string{"1. Q", "A. x", "*B. y", "C. z", "Answer: C"},
			want:     1,
			conflict: true,
		},
		{
			name:     "declaration before marker",
			lines:    []string{"1. Q", "Answer: C", "A. x", "*B. y", "C. z"},
			want:     2,
			conflict: true,
		},
		{
			name:  "agreeing marker and declaration",
			lines: []string{"1. Q", "A. x", "*B. y", "Answer: B"},
			want:  1,
		},
		{
			name:  "later declaration replaces earlier declaration",
			lines: []string{"1. Q", "A. x", "B. y", "Answer: A", "Answer: B"},
			want:  1,
		},
		{
			name:     "marker blocks a later declaration",
			lines:    []string{"1. Q", "Answer: B", "*A. x", "B. y", "C. z", "Answer: C"},
			want:     1,
			conflict: true,
		},
		{
			name:  "first marker wins",
			lines: []string{"1. Q", "*A. x", "*B. y"},
			want:  0,
			// Two markers disagree with each other.
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Build(blockOf(tt.lines...))
			if r.Question.Answer == nil || *r.Question.Answer != tt.want {
				t.Fatalf("expected answer %d, got %v", tt.want, r.Question.Answer)
			}
			if r.Conflict != tt.conflict {
				t.Fatalf("expected conflict=%v", tt.conflict)
			}
		})
	}
}

func TestBuild_AnswerOutOfRangeIsNull(t *testing.T) {
	for _, lines := range [][]string{
		{"1. Q", "A. x", "B. y", "Answer: D"},
		{"1. Q", "A. x", "B. y", "Answer: 7"},
		{"1. Q", "A. x", "B. y", "Answer: 0"},
		{"1. Q", "A. x", "B. y"},
	} {
		q := Build(blockOf(lines...)).Question
		if q.Answer != nil {
			t.Errorf("%q: expected nil answer, got %d", lines, *q.Answer)
		}
	}
}

func TestBuild_HeaderOnly(t *testing.T) {
	q := Build(blockOf("5. Explain photosynthesis")).Question
	if q.Type != bank.TypeShort {
		t.Fatalf("expected short, got %s", q.Type)
	}
	if q.ShortAnswer == nil || *q.ShortAnswer != "" {
		t.Fatalf("expected empty shortAnswer, got %v", q.ShortAnswer)
	}
	if q.Answer != nil || q.Choices != nil {
		t.Fatalf("expected no answer or choices, got %v %v", q.Answer, q.Choices)
	}
}

func TestBuild_EmptyHeaderGetsPlaceholder(t *testing.T) {
	blocks := Segment(SplitLines("5.\n"))
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	q := Build(blocks[0]).Question
	if q.Question != "Question 5" {
		t.Fatalf("expected placeholder text, got %q", q.Question)
	}

	// Prompt lines still take precedence over the placeholder.
	q = Build(blockOf("6.", "Name the largest planet.")).Question
	if q.Question != "Name the largest planet." {
		t.Fatalf("unexpected question %q", q.Question)
	}
}

func TestBuild_ContinuationLines(t *testing.T) {
	q := Build(blockOf(
		"1. (2 points)",
		"Which planet is",
		"the largest?",
		"",
		"A. Mars",
		"*B. Jupiter",
		"It has the most mass.",
	)).Question

	if q.Question != "(2 points) Which planet is the largest?" {
		t.Fatalf("unexpected question %q", q.Question)
	}
	if q.ShortAnswer == nil || *q.ShortAnswer != "It has the most mass." {
		t.Fatalf("unexpected shortAnswer %v", q.ShortAnswer)
	}
}

func TestBuild_ShortAnswerAccumulates(t *testing.T) {
	q := Build(blockOf(
		"3. Define osmosis",
		"ShortAnswer: movement of water",
		"across a membrane",
		"Đáp án ngắn: from low to high solute",
	)).Question

	if q.Type != bank.TypeShort {
		t.Fatalf("expected short, got %s", q.Type)
	}
	want := "movement of water across a membrane from low to high solute"
	if q.ShortAnswer == nil || *q.ShortAnswer != want {
		t.Fatalf("shortAnswer = %v, want %q", q.ShortAnswer, want)
	}
	if q.Question != "Define osmosis" {
		t.Fatalf("unexpected question %q", q.Question)
	}
}

func TestParse_Document(t *testing.T) {
	text := "Quiz bank v2\r\n" +
		"1. What is 2+2?\r\n" +
		"A. 3\r\n*B. 4\r\nC. 5\r\nD. 6\r\n" +
		"\r\n" +
		"2. Capital of France?\r\nAnswer: B\r\nA. Lyon\r\nB. Paris\r\n" +
		"7. Name the process plants use to make food\r\n" +
		"ShortAnswer: photosynthesis\r\n"

	qs := Parse(text)
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	for _, q := range qs {
		if q.ID != 0 {
			t.Fatalf("expected unassigned ids, got %d", q.ID)
		}
	}
	if *qs[0].Answer != 1 || *qs[1].Answer != 1 {
		t.Fatalf("unexpected answers %d %d", *qs[0].Answer, *qs[1].Answer)
	}
	if qs[2].Type != bank.TypeShort || *qs[2].ShortAnswer != "photosynthesis" {
		t.Fatalf("unexpected short question %+v", qs[2])
	}

	merged, added := bank.Merge(bank.Collection{{ID: 7, Question: "old", Type: bank.TypeShort}}, qs)
	if added != 3 {
		t.Fatalf("expected 3 added, got %d", added)
	}
	if merged[1].ID != 8 || merged[3].ID != 10 {
		t.Fatalf("unexpected ids %d..%d", merged[1].ID, merged[3].ID)
	}
}

func TestParse_Empty(t *testing.T) {
	if qs := Parse("no headers here\nA. x\n"); len(qs) != 0 {
		t.Fatalf("expected no questions, got %d", len(qs))
	}
	if qs := Parse(""); len(qs) != 0 {
		t.Fatalf("expected no questions, got %d", len(qs))
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "import.txt"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
}

func TestRenumber(t *testing.T) {
	in := "Intro\n" +
		"4. (2 points)\n" +
		"What is a cell?\n" +
		"9.(0.200 point) Which is a prime?\n" +
		"A. 4\n" +
		"12. Plain header without annotation\n" +
		"  2. (1 point)\n"

	out, n := Renumber(in)
	if n != 3 {
		t.Fatalf("expected 3 renumbered headers, got %d", n)
	}
	want := "Intro\n" +
		"1. (2 points)\n" +
		"What is a cell?\n" +
		"2.(0.200 point) Which is a prime?\n" +
		"A. 4\n" +
		"12. Plain header without annotation\n" +
		"  3. (1 point)\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRenumber_RequiresClosedParenthesis(t *testing.T) {
	in := "9. (open paren only\n4. (1 point) closed\n"
	out, n := Renumber(in)
	if n != 1 {
		t.Fatalf("expected 1 renumbered header, got %d", n)
	}
	if out != "9. (open paren only\n1. (1 point) closed\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenumber_Idempotent(t *testing.T) {
	in := "3. (1 point)\r\nQ one\r\n3. (1 point)\r\nQ two\r\n1. (2 points)"
	once, _ := Renumber(in)
	twice, _ := Renumber(once)
	if once != twice {
		t.Fatalf("renumber is not idempotent:\n%q\n%q", once, twice)
	}
	if !strings.HasPrefix(once, "1. (1 point)\nQ one\n2. (1 point)") {
		t.Fatalf("unexpected output %q", once)
	}
}

func TestRenumberFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.txt")
	orig := "5. (1 point)\nWhat?\n"
	if err := os.WriteFile(path, []byte(orig), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := RenumberFile(path)
	if err != nil {
		t.Fatalf("renumber: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 header, got %d", n)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "1. (1 point)\nWhat?\n" {
		t.Fatalf("unexpected content %q", got)
	}
	bak, _ := os.ReadFile(path + ".bak")
	if string(bak) != orig {
		t.Fatalf("unexpected backup %q", bak)
	}
}

func TestRenumberFile_Missing(t *testing.T) {
	_, err := RenumberFile(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
}

// blockOf builds a block from a header line and body lines.
func blockOf(lines ...string) Block {
	blocks := Segment(lines)
	if len(blocks) != 1 {
		panic("blockOf: expected exactly one header")
	}
	return blocks[0]
}
