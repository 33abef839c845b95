package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/abhisek/quizkit/internal/llm"
)

// Semantic scores the cosine similarity of embedding vectors.
type Semantic struct {
	Embedder llm.Embedder
}

func (s Semantic) Score(ctx context.Context, ref, cand string) (int, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGradeEmbed)
	out, err := s.Embedder.Embed(ctx, []string{ref, cand})
	if err != nil {
		return 0, err
	}
	if len(out.Vectors) != 2 {
		return 0, fmt.Errorf("expected 2 vectors, got %d", len(out.Vectors))
	}
	cos, err := Cosine(out.Vectors[0], out.Vectors[1])
	if err != nil {
		return 0, err
	}
	return FromCosine(cos), nil
}

// Cosine returns the cosine similarity of a and b. It fails on vectors of
// different length or zero magnitude.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("zero vector")
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

const judgeSystem = `You compare a student's answer with a reference answer.
Rate how close their meanings are as a cosine-style similarity between -1 and 1:
1 means the same meaning, 0 means unrelated, -1 means contradictory.
Ignore spelling, word order and language differences. Reply with JSON only.`

// judgeSchema is the structured output requested from the judge model.
var judgeSchema = &llm.Schema{
	Name:        "similarity-rating",
	Description: "Semantic similarity between a reference answer and a response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"similarity": map[string]any{
				"type":    "number",
				"minimum": -1,
				"maximum": 1,
			},
		},
		"required":             []any{"similarity"},
		"additionalProperties": false,
	},
}

// Judge asks a chat model to rate similarity on the cosine scale and maps
// the rating the same way as Semantic.
type Judge struct {
	Provider llm.Provider
}

func (j Judge) Score(ctx context.Context, ref, cand string) (int, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGradeJudge)
	resp, err := j.Provider.Generate(ctx, llm.Request{
		System: judgeSystem,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Reference answer:\n%s\n\nStudent answer:\n%s", ref, cand),
		}},
		Schema:    judgeSchema,
		MaxTokens: 64,
	})
	if err != nil {
		return 0, err
	}

	var rating struct {
		Similarity float64 `json:"similarity"`
	}
	if err := json.Unmarshal(resp.Content, &rating); err != nil {
		return 0, fmt.Errorf("decode rating: %w", err)
	}
	if rating.Similarity < -1 || rating.Similarity > 1 {
		return 0, fmt.Errorf("rating %v out of range", rating.Similarity)
	}
	return FromCosine(rating.Similarity), nil
}
