package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizkit/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent grading results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		keep, _ := cmd.Flags().GetInt("prune")

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		out := cmd.OutOrStdout()

		if cmd.Flags().Changed("prune") {
			if err := repo.PruneGrades(ctx, keep); err != nil {
				return err
			}
			fmt.Fprintf(out, "Kept the %d most recent grades.\n", keep)
			return nil
		}

		events, err := repo.QueryGrades(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query grades: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(out, "No grades recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-5s  %-5s  %-8s  %-24s  %s\n",
			"ID", "Timestamp", "Score", "Pass", "Tier", "Reference", "Response")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, e := range events {
			fmt.Fprintf(out, "%-5d  %-19s  %5d  %-5s  %-8s  %-24s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Score,
				e.Verdict,
				e.Tier,
				truncate(oneLine(e.Reference), 24),
				truncate(oneLine(e.Response), 32),
			)
		}

		stats, err := repo.GradeStats(ctx)
		if err != nil {
			return fmt.Errorf("query grade stats: %w", err)
		}
		fmt.Fprintln(out, strings.Repeat("─", 100))
		fmt.Fprintf(out, "%d graded, %d passed, average score %.1f", stats.Count, stats.Passed, stats.AvgScore)
		tiers := make([]string, 0, len(stats.ByTier))
		for t := range stats.ByTier {
			tiers = append(tiers, t)
		}
		sort.Strings(tiers)
		for i, t := range tiers {
			sep := ", "
			if i == 0 {
				sep = " ("
			}
			fmt.Fprintf(out, "%s%s %d", sep, t, stats.ByTier[t])
		}
		if len(tiers) > 0 {
			fmt.Fprint(out, ")")
		}
		fmt.Fprintln(out)
		return nil
	},
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of grades to show")
	historyCmd.Flags().Int("prune", 0, "Delete all but the N most recent grades")
}
