package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/aretw0/calform/internal/calibration"
	"github.com/aretw0/calform/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the calibration G-code",
	Long: `Validates the remembered parameters and writes the calibration tower G-code
into the output directory. Interrupting the command discards the partial file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			settings.cfg.OutDir = out
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		eng, release, err := openEngine(sc)
		if err != nil {
			return err
		}
		defer release()

		p, problems := calibration.Check(eng.State())
		if reportProblems(eng, problems) {
			return errors.New(eng.Catalog().GetString("validation.failed"))
		}

		if err := <-eng.Generate(sc); err != nil {
			if sig := sc.Signal(); sig != nil {
				return fmt.Errorf("interrupted by %s", sig)
			}
			// Close failures were already reported.
			return err
		}

		for _, s := range calibration.Segments(p) {
			settings.reporter.Info(fmt.Sprintf("Segment %d: K %g", s.Number, s.KFactor))
		}
		path := filepath.Join(settings.cfg.OutDir, calibration.FileName(p))
		settings.reporter.Success(eng.Catalog().GetString("generate.done") + ": " + path)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("out", "", "Output directory (env CALFORM_OUT_DIR)")
	rootCmd.AddCommand(generateCmd)
}
