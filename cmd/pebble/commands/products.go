package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/marshallshelly/pebble-records/cmd/pebble/output"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/repository"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Read the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every product",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProducts(cmd.Context(), func(ctx context.Context, r *repository.ProductRepository) ([]models.Product, error) {
			return r.List(ctx)
		})
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProductGet(cmd.Context(), args[0])
	},
}

var productsSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search product names, categories and descriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProducts(cmd.Context(), func(ctx context.Context, r *repository.ProductRepository) ([]models.Product, error) {
			return r.Search(ctx, args[0])
		})
	},
}

var productsCategoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "List products in a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProducts(cmd.Context(), func(ctx context.Context, r *repository.ProductRepository) ([]models.Product, error) {
			return r.ByCategory(ctx, args[0])
		})
	},
}

var productsFeaturedCmd = &cobra.Command{
	Use:   "featured",
	Short: "List featured products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProducts(cmd.Context(), func(ctx context.Context, r *repository.ProductRepository) ([]models.Product, error) {
			return r.Featured(ctx)
		})
	},
}

var productsTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProducts(cmd.Context(), func(ctx context.Context, r *repository.ProductRepository) ([]models.Product, error) {
			return r.Trending(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsGetCmd)
	productsCmd.AddCommand(productsSearchCmd)
	productsCmd.AddCommand(productsCategoryCmd)
	productsCmd.AddCommand(productsFeaturedCmd)
	productsCmd.AddCommand(productsTrendingCmd)
}

func runProducts(ctx context.Context, read func(context.Context, *repository.ProductRepository) ([]models.Product, error)) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.products()
	if err != nil {
		return err
	}
	products, err := read(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	if jsonOutput {
		return output.JSON(products)
	}
	if len(products) == 0 {
		output.Info("No products found")
		return nil
	}
	printProducts(products)
	return nil
}

func runProductGet(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.products()
	if err != nil {
		return err
	}
	p, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(p)
	}

	output.Section(p.Name)
	w := tabwriter.NewWriter(output.Writer(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\t%d\n", p.ID)
	_, _ = fmt.Fprintf(w, "Category\t%s / %s\n", p.Category, p.Subcategory)
	_, _ = fmt.Fprintf(w, "Price\t%s\n", output.Money(p.Price))
	_, _ = fmt.Fprintf(w, "In stock\t%s (%d)\n", output.Flag(p.InStock), p.StockCount)
	_, _ = fmt.Fprintf(w, "Sizes\t%s\n", strings.Join(p.Sizes, ", "))
	_, _ = fmt.Fprintf(w, "Colors\t%s\n", strings.Join(p.Colors, ", "))
	_, _ = fmt.Fprintf(w, "Images\t%s\n", strings.Join(p.Images, ", "))
	_, _ = fmt.Fprintf(w, "Description\t%s\n", p.Description)
	return w.Flush()
}

func printProducts(products []models.Product) {
	w := tabwriter.NewWriter(output.Writer(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tFEATURED\tTRENDING")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t-----\t-----\t--------\t--------")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			p.ID, p.Name, p.Category, output.Money(p.Price), p.StockCount,
			output.Flag(p.Featured), output.Flag(p.Trending))
	}
	_ = w.Flush()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
