package cmd

import (
	"github.com/spf13/cobra"

	"github.com/longkt99/scribe/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize scribe configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure scribe and generates a .scribe.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
