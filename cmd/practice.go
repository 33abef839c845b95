package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizkit/internal/bank"
	"github.com/abhisek/quizkit/internal/practice"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Take a quiz from the question bank in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")
		shuffle, _ := cmd.Flags().GetBool("shuffle")
		textCheck, _ := cmd.Flags().GetBool("text-check")

		c, err := bank.Load(cfg.BankPath)
		if err != nil {
			return err
		}
		if len(c) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No questions in %s. Import some first.\n", cfg.BankPath)
			return nil
		}

		g := newGrader(cfg)
		defer g.Close()

		opts := practice.Options{Count: count, Shuffle: shuffle, LexicalOnly: textCheck}
		model := practice.New(practice.Select(c, opts), g.Service, opts)

		final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
		if err != nil {
			return fmt.Errorf("run practice: %w", err)
		}
		if m, ok := final.(practice.Model); ok {
			fmt.Fprintln(cmd.OutOrStdout(), m.Summary())
		}
		return nil
	},
}

func init() {
	practiceCmd.Flags().IntP("count", "n", 0, "Number of questions (0 = all)")
	practiceCmd.Flags().Bool("shuffle", false, "Shuffle question order")
	practiceCmd.Flags().Bool("text-check", false, "Grade short answers lexically only")
}
