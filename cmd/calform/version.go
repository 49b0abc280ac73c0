package main

import (
	"fmt"

	"github.com/aretw0/calform"
	"github.com/aretw0/calform/internal/calibration"
	"github.com/aretw0/calform/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of calform",
	Run: func(cmd *cobra.Command, args []string) {
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "calform version %s (generator %s)\n",
			calform.Version, calibration.GeneratorVersion)
	},
}

func init() {
	versionCmd.Flags().BoolP("quiet", "q", false, "Print only the version line")
	rootCmd.AddCommand(versionCmd)
}
