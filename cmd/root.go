package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Decision engine for AI-assisted writing",
	Long: `Scribe decides how an AI writing assistant should act on each
instruction: whether to create new content or transform existing text,
whether to ask for confirmation, and what the user's learned preferences
suggest. Every execution passes a gate that binds the exact instruction
to a one-time token.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".scribe.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
