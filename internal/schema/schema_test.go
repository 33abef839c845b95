package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var point = Definition{
	Name: "test-point",
	Body: map[string]any{
		"type":     "object",
		"required": []any{"x"},
		"properties": map[string]any{
			"x": map[string]any{"type": "integer", "minimum": 0},
			"label": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
	},
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"valid", `{"x": 3, "label": "a"}`, nil},
		{"missing required", `{"label": "a"}`, ErrMismatch},
		{"below minimum", `{"x": -1}`, ErrMismatch},
		{"empty label", `{"x": 1, "label": ""}`, ErrMismatch},
		{"not json", `{x: 1}`, ErrMalformed},
		{"empty input", ``, ErrMalformed},
		{"trailing value", `{"x": 1} {"x": 2}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := point.Check([]byte(tt.data))
			if tt.want == nil {
				require.NoError(t, err)
				assert.NotNil(t, doc)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCheck_InvalidDefinition(t *testing.T) {
	bad := Definition{
		Name: "test-bad",
		Body: map[string]any{"type": "no-such-type"},
	}
	_, err := bad.Check([]byte(`{}`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMismatch))
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestCheck_CachesByName(t *testing.T) {
	first, err := point.compile()
	require.NoError(t, err)
	second, err := point.compile()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
