package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agenthands/ise/internal/relation"
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "List the supported relation types",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSUBJECT\tOBJECT\tDESCRIPTION")
		for _, r := range relation.All() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Subject, r.Object, r.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(relationsCmd)
}
