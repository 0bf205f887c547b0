package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-records/cmd/pebble/output"
	"github.com/marshallshelly/pebble-records/pkg/registry"
	"github.com/spf13/cobra"
)

var seed bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the PostgreSQL record store",
	Long: `Create the records table and its unique indexes if they are missing.
With --seed the demo catalog and profile are written as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&seed, "seed", false, "Write the demo catalog and profile")
}

func runInit(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.pg == nil {
		return fmt.Errorf("database URL is required (use --db or PEBBLE_DATABASE_URL)")
	}

	if err := a.pg.EnsureSchema(ctx, uniques...); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}
	output.Success("Record store ready")
	output.Info("Tables: %s", strings.Join(registry.Tables(), ", "))

	if seed {
		if err := seedDemo(ctx, a.db); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
		output.Success("Seeded %d products and 1 profile", len(demoProducts))
	}
	return nil
}
