package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/quizkit/internal/schema"
)

func ratingSchema() *Schema {
	return &Schema{
		Name:        "test-rating",
		Description: "A similarity rating",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"similarity": map[string]any{"type": "number", "minimum": -1, "maximum": 1},
				"verdict":    map[string]any{"type": "string", "enum": []any{"same", "related", "different"}},
				"reasons": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"similarity"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"similarity":0.4,"verdict":"related"}`, false},
		{"valid without optional", `{"similarity":-1}`, false},
		{"valid array items", `{"similarity":1,"reasons":["same city"]}`, false},
		{"missing required", `{"verdict":"same"}`, true},
		{"wrong type", `{"similarity":"high"}`, true},
		{"out of range", `{"similarity":1.5}`, true},
		{"invalid enum", `{"similarity":0,"verdict":"maybe"}`, true},
		{"wrong array item type", `{"similarity":0,"reasons":[1,2]}`, true},
		{"malformed json", `{not json}`, true},
		{"empty", ``, true},
		{"two documents", `{"similarity":0} {"similarity":1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(ratingSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_KeepsCause(t *testing.T) {
	err := validateResponse(ratingSchema(), json.RawMessage(`{"similarity":2}`))
	if !errors.Is(err, schema.ErrMismatch) {
		t.Fatalf("expected schema mismatch, got: %v", err)
	}
	err = validateResponse(ratingSchema(), json.RawMessage(`nope`))
	if !errors.Is(err, schema.ErrMalformed) {
		t.Fatalf("expected malformed JSON, got: %v", err)
	}
}
