package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/marshallshelly/pebble-records/cmd/pebble/output"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/spf13/cobra"
)

var (
	// Profile update flags
	firstName string
	lastName  string
	phone     string

	// Address flags
	address models.Address
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and edit the current profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileShow(cmd.Context())
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update name and phone of the current profile",
	Long: `Update the editable attributes of the current profile.
Flags that are not given keep their stored value. The address list is never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileUpdate(cmd)
	},
}

var profileAddressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "List the current profile's addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAddresses(cmd.Context())
	},
}

var profileAddAddressCmd = &cobra.Command{
	Use:   "add-address",
	Short: "Add an address to the current profile",
	Long: `Add an address to the current profile.
The first address becomes the default; later ones never do.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAddAddress(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileAddressesCmd)
	profileCmd.AddCommand(profileAddAddressCmd)

	profileUpdateCmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	profileUpdateCmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	profileUpdateCmd.Flags().StringVar(&phone, "phone", "", "Phone number")

	f := profileAddAddressCmd.Flags()
	f.StringVar(&address.Label, "label", "", "Address label, e.g. Home")
	f.StringVar(&address.FullName, "full-name", "", "Recipient name")
	f.StringVar(&address.Street, "street", "", "Street")
	f.StringVar(&address.Apartment, "apartment", "", "Apartment or suite")
	f.StringVar(&address.City, "city", "", "City")
	f.StringVar(&address.State, "state", "", "State or region")
	f.StringVar(&address.ZipCode, "zip", "", "Postal code")
	f.StringVar(&address.Country, "country", "", "Country")
	f.StringVar(&address.Phone, "phone", "", "Contact phone")
	_ = profileAddAddressCmd.MarkFlagRequired("street")
	_ = profileAddAddressCmd.MarkFlagRequired("city")
}

func runProfileShow(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.profiles()
	if err != nil {
		return err
	}
	p, err := repo.Current(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(p)
	}
	printProfile(p)
	return nil
}

func runProfileUpdate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.profiles()
	if err != nil {
		return err
	}
	current, err := repo.Current(ctx)
	if err != nil {
		return err
	}

	update := models.ProfileUpdate{
		FirstName: current.FirstName,
		LastName:  current.LastName,
		Phone:     current.Phone,
	}
	if cmd.Flags().Changed("first-name") {
		update.FirstName = firstName
	}
	if cmd.Flags().Changed("last-name") {
		update.LastName = lastName
	}
	if cmd.Flags().Changed("phone") {
		update.Phone = phone
	}

	p, err := repo.Update(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if jsonOutput {
		return output.JSON(p)
	}
	output.Success("Profile updated")
	printProfile(p)
	return nil
}

func runAddresses(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.profiles()
	if err != nil {
		return err
	}
	addresses, err := repo.Addresses(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(addresses)
	}
	if len(addresses) == 0 {
		output.Info("No addresses saved")
		return nil
	}
	printAddresses(addresses)
	return nil
}

func runAddAddress(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.profiles()
	if err != nil {
		return err
	}
	added, err := repo.AddAddress(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to add address: %w", err)
	}

	if jsonOutput {
		return output.JSON(added)
	}
	output.Success("Address %d added", added.ID)
	if added.IsDefault {
		output.Muted("Set as default address")
	}
	return nil
}

func printProfile(p models.UserProfile) {
	output.Section(fmt.Sprintf("%s %s", p.FirstName, p.LastName))
	w := tabwriter.NewWriter(output.Writer(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\t%d\n", p.ID)
	_, _ = fmt.Fprintf(w, "Email\t%s\n", p.Email)
	_, _ = fmt.Fprintf(w, "Phone\t%s\n", p.Phone)
	_, _ = fmt.Fprintf(w, "Addresses\t%d\n", len(p.Addresses))
	_, _ = fmt.Fprintf(w, "Created\t%s\n", p.CreatedAt)
	_ = w.Flush()
}

func printAddresses(addresses []models.Address) {
	w := tabwriter.NewWriter(output.Writer(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLABEL\tSTREET\tCITY\tCOUNTRY\tDEFAULT")
	_, _ = fmt.Fprintln(w, "--\t-----\t------\t----\t-------\t-------")
	for _, addr := range addresses {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			addr.ID, addr.Label, addr.Street, addr.City, addr.Country, output.Flag(addr.IsDefault))
	}
	_ = w.Flush()
}
