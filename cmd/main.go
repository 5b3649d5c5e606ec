package main

import (
	"os"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "promptsmith",
		Short: "Rewrite prompts for a target model",
		Long: `promptsmith analyzes a prompt, applies rewrite rules and curated best
practices, then tunes the result for the target model family.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		optimizeCmd(),
		modelsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
