package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizkit/internal/bank"
	"github.com/abhisek/quizkit/internal/importer"
	"github.com/abhisek/quizkit/internal/ui/theme"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Parse a plain-text quiz and append it to the question bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		parsed, err := parseSource(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(parsed) == 0 {
			fmt.Fprintf(out, "No questions parsed from %s\n", args[0])
			return nil
		}

		existing, err := bank.Load(cfg.BankPath)
		if err != nil {
			return err
		}
		merged, added := bank.Merge(existing, parsed)
		if err := bank.Save(cfg.BankPath, merged, bank.SaveOptions{Backup: true}); err != nil {
			return err
		}

		fmt.Fprintf(out, "Appended %d questions. Total now: %d. Written to %s\n", added, len(merged), cfg.BankPath)
		return nil
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <file>",
	Short: "Replace the question bank with a fresh parse of a plain-text quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		parsed, err := parseSource(args[0])
		if err != nil {
			return err
		}

		rebuilt := bank.Renumber(bank.Collection(parsed))
		if err := bank.Save(cfg.BankPath, rebuilt, bank.SaveOptions{Backup: true}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %s with %d questions\n", cfg.BankPath, len(rebuilt))
		return nil
	},
}

var renumberCmd = &cobra.Command{
	Use:   "renumber <file>",
	Short: "Renumber annotated question headers in a plain-text quiz",
	Long: `Rewrite headers such as "7. (2 points) ..." so their numbers run 1, 2, 3...
The original file is kept next to it with a .bak suffix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := importer.RenumberFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renumbered %d headers in %s (backup: %s%s)\n", n, args[0], args[0], bank.BackupSuffix)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		head, _ := cmd.Flags().GetInt("head")
		tail, _ := cmd.Flags().GetInt("tail")

		c, err := bank.Load(cfg.BankPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		mcq := 0
		for _, q := range c {
			if q.Type == bank.TypeMCQ {
				mcq++
			}
		}
		lipgloss.Fprintln(out, theme.Title.Render(cfg.BankPath))
		lipgloss.Fprintf(out, "Total: %d (%d mcq, %d short)\n", len(c), mcq, len(c)-mcq)
		if len(c) == 0 {
			return nil
		}

		head = min(head, len(c))
		tail = min(tail, len(c))

		if head > 0 {
			lipgloss.Fprintln(out, "\n"+theme.Subtitle.Render(fmt.Sprintf("First %d", head)))
			for _, q := range c[:head] {
				printQuestionLine(cmd, q)
			}
		}
		if tail > 0 {
			lipgloss.Fprintln(out, "\n"+theme.Subtitle.Render(fmt.Sprintf("Last %d", tail)))
			for _, q := range c[len(c)-tail:] {
				printQuestionLine(cmd, q)
			}
		}
		return nil
	},
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and remove near-duplicate questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		threshold := cfg.DedupThreshold
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetFloat64("threshold")
		}
		write, _ := cmd.Flags().GetBool("write")

		c, err := bank.Load(cfg.BankPath)
		if err != nil {
			return err
		}

		kept, removed := bank.Dedupe(c, threshold)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Found %d near-duplicates among %d questions (threshold %.2f)\n", removed, len(c), threshold)
		if removed == 0 || !write {
			if removed > 0 {
				fmt.Fprintln(out, "Run with --write to remove them.")
			}
			return nil
		}

		if err := bank.Save(cfg.BankPath, kept, bank.SaveOptions{Backup: true}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d questions. Total now: %d. Written to %s\n", removed, len(kept), cfg.BankPath)
		return nil
	},
}

// parseSource parses an import file and warns about blocks whose answer
// marker and answer line disagree.
func parseSource(path string) ([]bank.Question, error) {
	results, err := importer.ParseFile(path)
	if err != nil {
		return nil, err
	}
	out := make([]bank.Question, 0, len(results))
	for _, r := range results {
		if r.Conflict {
			slog.Warn("conflicting answer marker and answer line, kept the first",
				"file", path, "question", r.Number)
		}
		out = append(out, r.Question)
	}
	return out, nil
}

func printQuestionLine(cmd *cobra.Command, q bank.Question) {
	text := strings.Join(strings.Fields(q.Question), " ")
	if r := []rune(text); len(r) > 72 {
		text = string(r[:69]) + "..."
	}
	lipgloss.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
		theme.Label.Render(fmt.Sprintf("%5d", q.ID)),
		theme.Hint.Render(fmt.Sprintf("%-5s", q.Type)),
		theme.Body.Render(text))
}

func init() {
	showCmd.Flags().Int("head", 10, "Number of questions to list from the start")
	showCmd.Flags().Int("tail", 10, "Number of questions to list from the end")

	dedupeCmd.Flags().Float64("threshold", bank.DefaultDedupThreshold, "Token Jaccard ratio at which questions count as duplicates")
	dedupeCmd.Flags().Bool("write", false, "Remove duplicates from the bank (a .bak backup is kept)")
}
