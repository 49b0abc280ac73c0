package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/calform/internal/calibration"
	"github.com/aretw0/calform/internal/presentation/graph"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the current value of a field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, release, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		if _, ok := eng.Registry().Lookup(args[0]); !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownField, args[0])
		}
		v, _ := eng.State().Get(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value> [<key> <value>...]",
	Short: "Change and remember field values",
	Long: `Edits the given fields in order, as if typed into the form, then leaves the
form so the deferred validation of dependent groups runs.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return errors.New("expected key/value pairs")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, release, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		for i := 0; i < len(args); i += 2 {
			if err := eng.Focus(args[i]); err != nil {
				return err
			}
			if err := eng.Edit(ctx, args[i], args[i+1]); err != nil {
				return err
			}
		}
		if err := eng.Focus(""); err != nil {
			return err
		}
		reportProblems(eng, eng.LastProblems())
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every field with its value and the validation result",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, release, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			snap, err := eng.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, key := range eng.Registry().Keys() {
				if v, ok := snap[key]; ok {
					fmt.Fprintf(w, "%s\t%q\n", key, v)
				}
			}
			return w.Flush()
		}

		problems := eng.Validate()
		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			overlay := &graph.FormOverlay{}
			for _, pr := range problems {
				overlay.Invalid = append(overlay.Invalid, pr.Field)
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Registry(), overlay))
			return nil
		}

		state := eng.State()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, key := range eng.Registry().Keys() {
			v, _ := state.Get(key)
			fmt.Fprintf(w, "%s\t%s\n", key, v.String())
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if !reportProblems(eng, problems) {
			settings.reporter.Success(eng.Catalog().GetString("validation.ok"))
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [<key>...]",
	Short: "Restore fields to their defaults and remember them",
	Long:  `Restores the named fields, or every field when none are named, to the form defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, release, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		if err := eng.Reset(cmd.Context(), calibration.Defaults(), args...); err != nil {
			return err
		}
		reportProblems(eng, eng.LastProblems())
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every remembered value",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, release, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer release()
		return eng.Clear(cmd.Context())
	},
}

func init() {
	showCmd.Flags().Bool("mermaid", false, "Print the form as a Mermaid flowchart with invalid fields highlighted")
	showCmd.Flags().Bool("raw", false, "Print the stored strings as the medium holds them")
	rootCmd.AddCommand(getCmd, setCmd, showCmd, resetCmd, clearCmd)
}
