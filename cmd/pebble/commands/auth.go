package commands

import (
	"context"
	"fmt"

	"github.com/marshallshelly/pebble-records/cmd/pebble/output"
	"github.com/marshallshelly/pebble-records/pkg/repository"
	"github.com/spf13/cobra"
)

var registration repository.Registration

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Register and log in profiles",
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister(cmd.Context())
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Resolve a profile by email",
	Long: `Resolve a profile by email. Pass the same address as --email to other
commands to act as that profile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)

	registerCmd.Flags().StringVar(&registration.Email, "new-email", "", "Email of the new profile (required)")
	registerCmd.Flags().StringVar(&registration.FirstName, "first-name", "", "First name (required)")
	registerCmd.Flags().StringVar(&registration.LastName, "last-name", "", "Last name")
}

func runRegister(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.auth.Register(ctx, registration)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if jsonOutput {
		return output.JSON(p)
	}
	output.Success("Registered %s (ID %d)", p.Email, p.ID)
	return nil
}

func runLogin(ctx context.Context, loginEmail string) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	_, p, err := a.auth.Login(ctx, loginEmail)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(p)
	}
	output.Success("Welcome back, %s", p.FirstName)
	output.Muted("Use --email %s to act as this profile", p.Email)
	return nil
}
