package llm

import (
	"encoding/json"

	"github.com/abhisek/quizkit/internal/schema"
)

// validateResponse checks raw against the requested schema. A nil schema
// accepts anything. Failures come back as *ErrInvalidResponse so the retry
// layer can give the model one more attempt.
func validateResponse(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	def := schema.Definition{Name: "llm-" + s.Name, Body: s.Definition}
	if _, err := def.Check(raw); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}
