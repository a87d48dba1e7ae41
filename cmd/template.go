package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/kestrel/internal/config"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a fully populated example config file",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := config.Template()
		if err != nil {
			exitWithError("failed to render template", err)
		}
		os.Stdout.Write(out)
	},
}
