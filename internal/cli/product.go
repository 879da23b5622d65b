package cli

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/gestion/internal/export"
	"github.com/roach88/gestion/internal/model"
)

// ProductOptions holds flags for the product subcommands.
type ProductOptions struct {
	*RootOptions
	Name  string
	Price string
	Stock int64
	Note  string
	Delta int64
}

// NewProductCommand creates the product command group.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products and stock",
	}

	cmd.AddCommand(newProductAddCommand(rootOpts))
	cmd.AddCommand(newProductListCommand(rootOpts))
	cmd.AddCommand(newProductGetCommand(rootOpts))
	cmd.AddCommand(newProductEditCommand(rootOpts))
	cmd.AddCommand(newProductDeleteCommand(rootOpts))
	cmd.AddCommand(newProductRestockCommand(rootOpts))

	return cmd
}

func (o *ProductOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Name, "name", "", "product name")
	cmd.Flags().StringVar(&o.Price, "price", "", "unit price, e.g. 10.50")
	cmd.Flags().Int64Var(&o.Stock, "stock", 0, "units in stock")
	cmd.Flags().StringVar(&o.Note, "note", "", "free-form note")
}

func newProductAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add a product. Name and price are required; stock defaults to 0.

Example:
  gestion product add --name Widget --price 10.00 --stock 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := model.ParseMoney(opts.Price)
			if err != nil {
				return err
			}
			app, err := opts.openApp()
			if err != nil {
				return err
			}
			p, err := app.Products.Add(cmd.Context(), model.ProductFields{
				Name:  opts.Name,
				Price: price,
				Stock: opts.Stock,
				Note:  opts.Note,
			})
			if err != nil {
				return err
			}
			return writeOne(opts.formatter(cmd), p, export.ProductsTable, newProductView)
		},
	}
	opts.bindFlags(cmd)

	return cmd
}

func newProductListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			return writeList(rootOpts.formatter(cmd), app.Products.List(cmd.Context()), export.ProductsTable, newProductView)
		},
	}
}

func newProductGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			p, err := app.Products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeOne(rootOpts.formatter(cmd), p, export.ProductsTable, newProductView)
		},
	}
}

func newProductEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a product",
		Long: `Change fields of a product. Only the flags given are changed.
Sales already recorded keep the price they were sold at.

Example:
  gestion product edit 1 --price 12.50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}

			var patch model.ProductPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &opts.Name
			}
			if flags.Changed("price") {
				var price decimal.Decimal
				if price, err = model.ParseMoney(opts.Price); err != nil {
					return err
				}
				patch.Price = &price
			}
			if flags.Changed("stock") {
				patch.Stock = &opts.Stock
			}
			if flags.Changed("note") {
				patch.Note = &opts.Note
			}

			app, err := opts.openApp()
			if err != nil {
				return err
			}
			p, err := app.Products.Edit(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return writeOne(opts.formatter(cmd), p, export.ProductsTable, newProductView)
		},
	}
	opts.bindFlags(cmd)

	return cmd
}

func newProductDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product; its sales are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			if err := app.Products.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(deleted{Kind: "product", ID: id, Deleted: true})
		},
	}
}

func newProductRestockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "restock <id>",
		Short: "Add or remove units of stock",
		Long: `Add units to a product's stock, or remove them with a negative delta.
Stock never goes below zero.

Examples:
  gestion product restock 1 --delta 20
  gestion product restock 1 --delta=-2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			if opts.Delta == 0 {
				return model.NewValidationError("delta", "delta must not be zero")
			}
			app, err := opts.openApp()
			if err != nil {
				return err
			}
			p, err := app.Products.Restock(cmd.Context(), id, opts.Delta)
			if err != nil {
				return err
			}
			opts.formatter(cmd).VerboseLog("stock of product %d changed by %+d", id, opts.Delta)
			return writeOne(opts.formatter(cmd), p, export.ProductsTable, newProductView)
		},
	}
	cmd.Flags().Int64Var(&opts.Delta, "delta", 0, "units to add (negative to remove)")
	_ = cmd.MarkFlagRequired("delta")

	return cmd
}
