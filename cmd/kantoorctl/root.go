package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kantoorctl",
	Short: "Kantoor server and administration tool",
	Long: `kantoorctl runs the Kantoor API server and administers its tenants.

Server state lives in PostgreSQL; most commands require DATABASE_URL.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	// Development convenience; a missing .env is fine.
	_ = godotenv.Load()
	Execute()
}
