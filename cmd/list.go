package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	_ "firestige.xyz/kestrel/internal/modules" // register built-in protocols
	"firestige.xyz/kestrel/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered protocol modules",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 3, 4, 5, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, d := range registry.Default.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.Name, d.Description)
		}
		w.Flush()
	},
}
