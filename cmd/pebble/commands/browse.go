package commands

import (
	"github.com/marshallshelly/pebble-records/cmd/pebble/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog and place orders interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := a.products()
	if err != nil {
		return err
	}
	profiles, err := a.profiles()
	if err != nil {
		return err
	}
	orders, err := a.orders()
	if err != nil {
		return err
	}

	return tui.RunBrowseUI(ctx, products, profiles, orders)
}
