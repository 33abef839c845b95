package llm

import "context"

// Purpose labels why a backend call was made. It is stored with every
// request event so usage can be broken down per grading step.
type Purpose string

const (
	PurposeGradeEmbed Purpose = "grade-embed"
	PurposeGradeJudge Purpose = "grade-judge"
	PurposeUnknown    Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose returns a copy of ctx carrying p.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose carried by ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
