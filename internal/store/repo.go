package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries. Results are newest first.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // created_at >= From
	To    time.Time // created_at <= To
}

// GradeEventData captures one grading request and its outcome.
type GradeEventData struct {
	RequestID  string
	QuestionID int // 0 when the grade was not tied to a bank question
	Reference  string
	Response   string
	Score      int
	Verdict    string
	Tier       string
}

// GradeEvent is a persisted grading record.
type GradeEvent struct {
	GradeEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a persisted LLM request record.
type LLMRequestEvent struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to recorded events.
type EventRepo interface {
	// AppendGrade records a grading result.
	AppendGrade(ctx context.Context, data GradeEventData) error

	// QueryGrades returns grading records, newest first.
	QueryGrades(ctx context.Context, opts QueryOpts) ([]GradeEvent, error)

	// PruneGrades deletes all but the keep most recent grading records.
	PruneGrades(ctx context.Context, keep int) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM request event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per request purpose.
	LLMUsageByPurpose(ctx context.Context) ([]UsageStat, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]UsageStat, error)

	// GradeStats aggregates all recorded grades.
	GradeStats(ctx context.Context) (GradeSummary, error)
}

// UsageStat is aggregated LLM usage for one key (a purpose or a model).
type UsageStat struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// GradeSummary aggregates recorded grades.
type GradeSummary struct {
	Count    int
	Passed   int
	AvgScore float64
	ByTier   map[string]int
}
