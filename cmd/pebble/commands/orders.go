package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/marshallshelly/pebble-records/cmd/pebble/output"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/repository"
	"github.com/spf13/cobra"
)

var (
	// Order placement flags
	productID     int64
	quantity      int
	shippingCost  float64
	taxAmount     float64
	addressID     int64
	uuidNumbering bool
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Place and read the current profile's orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrdersList(cmd.Context())
	},
}

var ordersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrderGet(cmd.Context(), args[0])
	},
}

var ordersPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Place an order for one product",
	Long: `Place an order for one product, shipped to the default address
(or --address). Shipping and tax are added to the product subtotal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrderPlace(cmd.Context())
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change an order's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrderStatus(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersGetCmd)
	ordersCmd.AddCommand(ordersPlaceCmd)
	ordersCmd.AddCommand(ordersStatusCmd)

	ordersPlaceCmd.Flags().Int64Var(&productID, "product", 0, "Product ID (required)")
	ordersPlaceCmd.Flags().IntVar(&quantity, "qty", 1, "Quantity")
	ordersPlaceCmd.Flags().Float64Var(&shippingCost, "shipping", 0, "Shipping cost")
	ordersPlaceCmd.Flags().Float64Var(&taxAmount, "tax", 0, "Tax amount")
	ordersPlaceCmd.Flags().Int64Var(&addressID, "address", 0, "Address ID (defaults to the default address)")
	ordersPlaceCmd.Flags().BoolVar(&uuidNumbering, "uuid-number", false, "Use a UUID-based order number")
	_ = ordersPlaceCmd.MarkFlagRequired("product")
}

func runOrdersList(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.orders()
	if err != nil {
		return err
	}
	orders, err := repo.ListForActor(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	if jsonOutput {
		return output.JSON(orders)
	}
	if len(orders) == 0 {
		output.Info("No orders yet")
		return nil
	}

	w := tabwriter.NewWriter(output.Writer(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNUMBER\tSTATUS\tITEMS\tTOTAL\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t------\t------\t-----\t-----\t-------")
	for _, o := range orders {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s %s\t%d\t%s\t%s\n",
			o.ID, o.OrderNumber, output.StatusIcon(o.Status), o.Status,
			len(o.Items), output.Money(o.Total), o.CreatedAt)
	}
	return w.Flush()
}

func runOrderGet(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.orders()
	if err != nil {
		return err
	}
	o, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(o)
	}
	printOrder(o)
	return nil
}

func runOrderPlace(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := a.products()
	if err != nil {
		return err
	}
	p, err := products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if !p.InStock {
		output.Warning("%s is out of stock", p.Name)
	}

	profiles, err := a.profiles()
	if err != nil {
		return err
	}
	addresses, err := profiles.Addresses(ctx)
	if err != nil {
		return err
	}
	addr, err := pickAddress(addresses, addressID)
	if err != nil {
		return err
	}

	draft := models.DraftFor(p, quantity, addr)
	draft.Shipping = shippingCost
	draft.Tax = taxAmount
	draft.Recalculate()

	var opts []repository.OrderOption
	if uuidNumbering {
		opts = append(opts, repository.WithOrderNumbers(repository.UUIDOrderNumbers{}))
	}
	repo, err := a.orders(opts...)
	if err != nil {
		return err
	}
	o, err := repo.Create(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	if jsonOutput {
		return output.JSON(o)
	}
	output.Success("Order %s placed", o.OrderNumber)
	printOrder(o)
	return nil
}

func runOrderStatus(ctx context.Context, arg, status string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.orders()
	if err != nil {
		return err
	}
	o, err := repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if jsonOutput {
		return output.JSON(o)
	}
	output.Success("Order %s is now %s %s", o.OrderNumber, output.StatusIcon(o.Status), o.Status)
	return nil
}

// pickAddress returns the address with the given ID, or the default when id is zero.
func pickAddress(addresses []models.Address, id int64) (models.Address, error) {
	if id == 0 {
		if addr, ok := models.DefaultAddress(addresses); ok {
			return addr, nil
		}
		if len(addresses) > 0 {
			return addresses[0], nil
		}
		return models.Address{}, fmt.Errorf("no saved address: add one with 'pebble profile add-address'")
	}
	for _, addr := range addresses {
		if addr.ID == id {
			return addr, nil
		}
	}
	return models.Address{}, fmt.Errorf("address %d not found", id)
}

func printOrder(o models.Order) {
	output.Section("Order " + o.OrderNumber)
	w := tabwriter.NewWriter(output.Writer(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\t%d\n", o.ID)
	_, _ = fmt.Fprintf(w, "Status\t%s %s\n", output.StatusIcon(o.Status), o.Status)
	_, _ = fmt.Fprintf(w, "Created\t%s\n", o.CreatedAt)
	for i, item := range o.Items {
		_, _ = fmt.Fprintf(w, "Item %d\t%v x%v\n", i+1, item["name"], item["quantity"])
	}
	_, _ = fmt.Fprintf(w, "Subtotal\t%s\n", output.Money(o.Subtotal))
	_, _ = fmt.Fprintf(w, "Shipping\t%s\n", output.Money(o.Shipping))
	_, _ = fmt.Fprintf(w, "Tax\t%s\n", output.Money(o.Tax))
	_, _ = fmt.Fprintf(w, "Total\t%s\n", output.Money(o.Total))
	_, _ = fmt.Fprintf(w, "Ship to\t%s, %s %s\n", o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.Country)
	_ = w.Flush()
}
