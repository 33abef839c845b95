package cmd

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizkit/internal/config"
	"github.com/abhisek/quizkit/internal/grading"
	"github.com/abhisek/quizkit/internal/similarity"
	"github.com/abhisek/quizkit/internal/store"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade one response against a reference answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		answer, _ := cmd.Flags().GetString("answer")
		response, _ := cmd.Flags().GetString("response")
		textCheck, _ := cmd.Flags().GetBool("text-check")

		g := newGrader(cfg)
		defer g.Close()

		res := g.Service.Grade(cmd.Context(), answer, response, grading.Options{LexicalOnly: textCheck})
		slog.Debug("graded", "tier", res.Tier, "score", res.Score)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

// grader bundles a grading service with the store it records into.
type grader struct {
	Service *grading.Service
	Tiers   []string
	store   *store.Store
}

func (g *grader) Close() {
	if g.store != nil {
		g.store.Close()
	}
}

// newGrader builds the grading service from cfg: a lazily created
// semantic tier when a provider is configured, then the lexical tiers.
// With history enabled, grades and LLM calls are recorded in the
// database; a database that cannot be opened only disables recording.
func newGrader(cfg config.Config) *grader {
	g := &grader{}

	var repo store.EventRepo
	if cfg.History {
		s, err := openStore(cfg)
		if err != nil {
			slog.Warn("grading history disabled", "err", err)
		} else {
			g.store = s
			repo = s.EventRepo()
		}
	}

	var tiers []similarity.Tier
	if cfg.Semantic.Enabled() {
		tiers = append(tiers, similarity.Tier{
			Name:   similarity.TierSemantic,
			Scorer: similarity.NewLazyFromConfig(cfg.Semantic, repo),
		})
	}
	tiers = append(tiers, similarity.Tier{Name: similarity.TierFuzzy, Scorer: similarity.Fuzzy{}})
	chain := similarity.NewChain(tiers...)
	g.Tiers = chain.Tiers()

	var opts []grading.Option
	if repo != nil {
		opts = append(opts, grading.WithHistory(repo))
	}
	g.Service = grading.NewService(chain, opts...)
	return g
}

func init() {
	gradeCmd.Flags().String("answer", "", "Reference answer")
	gradeCmd.Flags().String("response", "", "Response to grade")
	gradeCmd.Flags().Bool("text-check", false, "Use lexical comparison only")
}
