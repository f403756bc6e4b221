package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "loja",
	Short:         "Storefront with a product catalog, contact directory and banner carousel",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
