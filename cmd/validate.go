package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/kestrel/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file without sending anything",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := config.Load(configFile); err != nil {
			exitWithError("config validation failed", err)
		}
		fmt.Printf("%s: OK\n", configFile)
	},
}
