package llm

import (
	"context"
	"encoding/json"
	"sync"
	"unicode"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockEmbedder is a deterministic Embedder. Queued errors are returned
// first, in FIFO order; after that every text is mapped through Vector.
type MockEmbedder struct {
	mu     sync.Mutex
	errs   []error
	Vector func(string) []float32
	Calls  [][]string
}

// NewMockEmbedder creates a MockEmbedder using LetterVector.
func NewMockEmbedder(errs ...error) *MockEmbedder {
	return &MockEmbedder{errs: errs, Vector: LetterVector}
}

func (m *MockEmbedder) Embed(_ context.Context, texts []string) (*Embeddings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, texts)

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}

	out := &Embeddings{Model: "mock"}
	for _, t := range texts {
		out.Vectors = append(out.Vectors, m.Vector(t))
		out.Usage.InputTokens += len([]rune(t))
	}
	out.Usage.TotalTokens = out.Usage.InputTokens
	return out, nil
}

// ModelID returns "mock".
func (m *MockEmbedder) ModelID() string {
	return "mock"
}

// CallCount returns the number of Embed calls made.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LetterVector is a bag-of-letters embedding: 26 counts of the ASCII
// letters a-z, case-folded. Texts with the same letters map to the same
// direction.
func LetterVector(s string) []float32 {
	v := make([]float32, 26)
	for _, r := range s {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return v
}
