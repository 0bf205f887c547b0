package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	envFile    string
	email      string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pebble",
	Short: "Pebble Records - storefront data access over a hosted record store",
	Long: `Pebble Records maps storefront entities (profiles, products, orders) onto a
schemaless record store and back.

Without --db (or PEBBLE_DATABASE_URL) every command runs against an in-memory
store seeded with a demo catalog and profile.

Features:
  - Catalog reads: list, search, category, featured and trending products
  - Profile and address book management for the current actor
  - Order placement and history scoped to the current actor
  - Email-based registration and login
  - PostgreSQL-backed record store with JSONB documents
  - Interactive catalog browser`,
	Version:       "0.4.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to PEBBLE_DATABASE_URL, in-memory demo store if empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading PEBBLE_* variables")
	rootCmd.PersistentFlags().StringVar(&email, "email", "", "Act as the profile with this email (defaults to the first profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
