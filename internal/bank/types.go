package bank

// Type is the kind of a question record.
type Type string

const (
	// TypeMCQ is a multiple-choice question with lettered choices.
	TypeMCQ Type = "mcq"

	// TypeShort is a free-text question with an expected short answer.
	TypeShort Type = "short"
)

// Question is one record of a question bank, as stored in the JSON file.
type Question struct {
	// ID is unique and positive within a collection. Assigned on merge.
	ID int `json:"id"`

	// Question is the prompt text (header plus continuation lines).
	Question string `json:"question"`

	// Type is mcq iff Choices is non-empty.
	Type Type `json:"type"`

	// Choices holds the choice texts in label order (A, B, C, D).
	// Omitted for short questions.
	Choices []string `json:"choices,omitempty"`

	// Answer is a zero-based index into Choices, or nil when undetermined.
	Answer *int `json:"answer"`

	// ShortAnswer is the expected answer for short questions, and optional
	// reference text for MCQs. Nil is encoded as JSON null.
	ShortAnswer *string `json:"shortAnswer"`
}

// Collection is an ordered question bank. Order is insertion order.
type Collection []Question

// MaxID returns the largest id in the collection, or 0 if it is empty.
func (c Collection) MaxID() int {
	max := 0
	for _, q := range c {
		if q.ID > max {
			max = q.ID
		}
	}
	return max
}

// CorrectChoice returns the text of the correct choice and true, or ""
// and false when the question has no valid answer index.
func (q Question) CorrectChoice() (string, bool) {
	if q.Answer == nil || *q.Answer < 0 || *q.Answer >= len(q.Choices) {
		return "", false
	}
	return q.Choices[*q.Answer], true
}

// Reference returns the text a free-text response should be compared with.
func (q Question) Reference() string {
	if q.ShortAnswer != nil && *q.ShortAnswer != "" {
		return *q.ShortAnswer
	}
	if c, ok := q.CorrectChoice(); ok {
		return c
	}
	return ""
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
