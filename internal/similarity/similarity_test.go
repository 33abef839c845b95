package similarity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizkit/internal/llm"
)

type fixedScorer struct {
	score int
	err   error
	calls int
}

func (f *fixedScorer) Score(context.Context, string, string) (int, error) {
	f.calls++
	return f.score, f.err
}

func TestJaccard(t *testing.T) {
	j := Jaccard{MinLen: DefaultMinLen}
	ctx := context.Background()

	tests := []struct {
		name      string
		ref, cand string
		want      int
	}{
		{"identical", "Photosynthesis converts light energy", "Photosynthesis converts light energy", 100},
		{"case insensitive", "Paris France", "paris FRANCE", 100},
		{"both empty", "", "", 0},
		{"one empty", "capital city", "", 0},
		{"only short tokens", "a an to", "of is", 0},
		{"half overlap", "red green blue", "red green yellow purple", 40},
		{"disjoint", "alpha beta", "gamma delta", 0},
		{"short tokens ignored", "a cat sat", "cat sat on", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.Score(ctx, tt.ref, tt.cand)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJaccard_MinLenOne(t *testing.T) {
	got, err := Jaccard{MinLen: 1}.Score(context.Background(), "to be", "to go")
	require.NoError(t, err)
	assert.Equal(t, 33, got)
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear"))
	assert.Equal(t, 100, TokenSetRatio("Paris", "Paris, the capital of France"), "subset scores 100")
	assert.Equal(t, 100, TokenSetRatio("hello world", "HELLO world!"))
	assert.Equal(t, 0, TokenSetRatio("", "anything"))
	assert.Equal(t, 0, TokenSetRatio("abc", "xyz"))

	// "ab" vs "ac": indel distance 2 over length 4.
	assert.Equal(t, 50, TokenSetRatio("ab", "ac"))

	got := TokenSetRatio("the mitochondria makes energy", "mitochondria produces energy")
	assert.Greater(t, got, 70)
	assert.Less(t, got, 100)
}

func TestCosineAndMapping(t *testing.T) {
	cos, err := Cosine([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cos, 1e-9)

	cos, err = Cosine([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, FromCosine(cos))

	_, err = Cosine([]float32{0, 0}, []float32{1, 0})
	assert.Error(t, err)
	_, err = Cosine([]float32{1}, []float32{1, 0})
	assert.Error(t, err)

	assert.Equal(t, 100, FromCosine(1))
	assert.Equal(t, 50, FromCosine(0))
	assert.Equal(t, 75, FromCosine(0.5))
	assert.Equal(t, 100, FromCosine(1.0000001))
}

func TestChain_FirstSuccessfulTierWins(t *testing.T) {
	broken := &fixedScorer{err: ErrUnavailable}
	outOfRange := &fixedScorer{score: 140}
	good := &fixedScorer{score: 88}
	never := &fixedScorer{score: 1}

	c := NewChain(
		Tier{Name: "broken", Scorer: broken},
		Tier{Name: "range", Scorer: outOfRange},
		Tier{Name: "good", Scorer: good},
		Tier{Name: "never", Scorer: never},
	)
	res := c.Score(context.Background(), "ref text", "candidate text")
	assert.Equal(t, Result{Score: 88, Tier: "good"}, res)
	assert.Equal(t, 0, never.calls)
	assert.Equal(t, []string{"broken", "range", "good", "never", TierJaccard}, c.Tiers())
}

func TestChain_AllTiersFailFallsBackToJaccard(t *testing.T) {
	c := NewChain(Tier{Name: "x", Scorer: &fixedScorer{err: errors.New("boom")}})
	res := c.Score(context.Background(), "water boils", "water boils")
	assert.Equal(t, Result{Score: 100, Tier: TierJaccard}, res)
}

func TestChain_BlankInputSkipsTiers(t *testing.T) {
	tier := &fixedScorer{score: 99}
	c := NewChain(Tier{Name: "x", Scorer: tier})

	assert.Equal(t, Result{Score: 0, Tier: TierJaccard}, c.Score(context.Background(), "", ""))
	assert.Equal(t, Result{Score: 0, Tier: TierJaccard}, c.Score(context.Background(), "answer", "   "))
	assert.Equal(t, 0, tier.calls)
}

func TestChain_ScoreAlwaysInRange(t *testing.T) {
	c := Lexical()
	pairs := [][2]string{
		{"", ""},
		{"x", ""},
		{"Thủ đô của Pháp là Paris", "Paris"},
		{"1 2 3", "3 2 1"},
		{"!!!", "???"},
		{"long answer about the water cycle and evaporation", "evaporation"},
	}
	for _, p := range pairs {
		res := c.Score(context.Background(), p[0], p[1])
		assert.GreaterOrEqual(t, res.Score, 0, p)
		assert.LessOrEqual(t, res.Score, 100, p)
	}
}

func TestSemantic_WithMockEmbedder(t *testing.T) {
	s := Semantic{Embedder: llm.NewMockEmbedder()}
	got, err := s.Score(context.Background(), "listen", "silent")
	require.NoError(t, err)
	assert.Equal(t, 100, got, "anagrams share a letter vector")

	_, err = Semantic{Embedder: llm.NewMockEmbedder()}.Score(context.Background(), "abc", "123")
	assert.Error(t, err, "digits give a zero vector")
}

func TestJudge_WithMockProvider(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"similarity":0.5}`)},
		llm.MockResponse{Content: json.RawMessage(`{"similarity":3}`)},
	)
	j := Judge{Provider: mock}

	got, err := j.Score(context.Background(), "Paris", "paris")
	require.NoError(t, err)
	assert.Equal(t, 75, got)

	_, err = j.Score(context.Background(), "Paris", "paris")
	assert.Error(t, err)

	require.Len(t, mock.Calls, 2)
	assert.Equal(t, judgeSchema, mock.Calls[0].Schema)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Paris")
}

func TestLazy_InitialisesOnce(t *testing.T) {
	builds := 0
	l := NewLazy(func(context.Context) (*llm.Backend, error) {
		builds++
		return &llm.Backend{Provider: llm.ProviderMock, Mode: llm.ModeEmbed, Embedder: llm.NewMockEmbedder()}, nil
	}, 0)

	assert.True(t, l.Available(context.Background()))
	got, err := l.Score(context.Background(), "stone", "notes")
	require.NoError(t, err)
	assert.Equal(t, 100, got)
	assert.Equal(t, llm.ModeEmbed, l.Mode(context.Background()))
	assert.Equal(t, 1, builds)
}

func TestLazy_UnavailableBackend(t *testing.T) {
	builds := 0
	l := NewLazy(func(context.Context) (*llm.Backend, error) {
		builds++
		return nil, errors.New("no key")
	}, 0)

	_, err := l.Score(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, l.Available(context.Background()))
	assert.Equal(t, 1, builds)

	c := NewChain(Tier{Name: TierSemantic, Scorer: l}, Tier{Name: TierFuzzy, Scorer: Fuzzy{}})
	res := c.Score(context.Background(), "the capital is Paris", "Paris is the capital")
	assert.Equal(t, Result{Score: 100, Tier: TierFuzzy}, res)
}

func TestNewLazyFromConfig_None(t *testing.T) {
	l := NewLazyFromConfig(llm.DefaultConfig(), nil)
	assert.False(t, l.Available(context.Background()))
}
