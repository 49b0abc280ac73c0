package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/calform/internal/cli"
	"github.com/aretw0/calform/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the form fields",
	Long:  `Lists every field in form order with its kind and dependent group.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cli.LoadRegistry(settings.cfg)
		if err != nil {
			return err
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(reg, nil))
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tKIND\tGROUP")
		for _, f := range reg.Fields() {
			group, _ := reg.GroupOf(f.Key)
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.Key, f.Kind, group)
		}
		return w.Flush()
	},
}

func init() {
	fieldsCmd.Flags().Bool("mermaid", false, "Print the form as a Mermaid flowchart")
	rootCmd.AddCommand(fieldsCmd)
}
