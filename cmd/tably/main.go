package main

import (
	"os"

	"github.com/spf13/cobra"

	"tably/internal/interfaces/cli/migrate"
	"tably/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tably",
		Short: "Tably - subscription lifecycle service",
		Long:  `Tably keeps per-user subscription records in sync with a recurring-payment gateway via checkout flows and signed webhooks.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
