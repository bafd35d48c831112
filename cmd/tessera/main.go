package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tessera/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Database and collaboration tooling for tessera workspaces",
	Long: `tessera manages the workspace database (schema, drop, seed) and can
open a live canvas session against a running server (watch).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file (silently ignore if it doesn't exist)
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newDropCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newWatchCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	return config.Load()
}
