package main

import (
	"fmt"

	"github.com/aretw0/calform/internal/script"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay recorded focus and edit steps",
	Long: `Applies a YAML script of focus, edit and blur steps to the form, remembering
each edit, and reports how many full validations ran.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := script.ParseFile(args[0])
		if err != nil {
			return err
		}

		eng, release, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		res, err := s.Run(cmd.Context(), eng)
		settings.reporter.Info(fmt.Sprintf("%d steps, %d full validations", res.Steps, res.Validations))
		if err != nil {
			return err
		}
		reportProblems(eng, eng.LastProblems())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
