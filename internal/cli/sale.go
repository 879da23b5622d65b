package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/gestion/internal/export"
)

// SaleOptions holds flags for the sale subcommands.
type SaleOptions struct {
	*RootOptions
	ClientID  int64
	ProductID int64
	Quantity  int64
}

// NewSaleCommand creates the sale command group.
func NewSaleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and list sales",
	}

	cmd.AddCommand(newSaleRecordCommand(rootOpts))
	cmd.AddCommand(newSaleListCommand(rootOpts))
	cmd.AddCommand(newSaleGetCommand(rootOpts))

	return cmd
}

func newSaleRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a sale",
		Long: `Record a sale of a product, optionally to a client.

Stock is decremented and the total is fixed at the current price. The sale
is refused, and nothing changes, if stock is insufficient.

Examples:
  gestion sale record --product 1 --quantity 3
  gestion sale record --client 2 --product 1 --quantity 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var clientID *int64
			if cmd.Flags().Changed("client") {
				clientID = &opts.ClientID
			}
			app, err := opts.openApp()
			if err != nil {
				return err
			}
			sale, err := app.Sales.RecordSale(cmd.Context(), clientID, opts.ProductID, opts.Quantity)
			if err != nil {
				return err
			}
			view, err := app.Sales.GetSale(cmd.Context(), sale.ID)
			if err != nil {
				return err
			}
			return writeOne(opts.formatter(cmd), view, export.SalesTable, newSaleView)
		},
	}
	cmd.Flags().Int64Var(&opts.ClientID, "client", 0, "client id (omit for an anonymous sale)")
	cmd.Flags().Int64Var(&opts.ProductID, "product", 0, "product id (required)")
	_ = cmd.MarkFlagRequired("product")
	cmd.Flags().Int64Var(&opts.Quantity, "quantity", 0, "units sold (required)")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func newSaleListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sales by id",
		Long: `List every recorded sale with the current names of its client and
product. A deleted client or product is shown as "unknown".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			return writeList(rootOpts.formatter(cmd), app.Sales.ListSales(cmd.Context()), export.SalesTable, newSaleView)
		},
	}
}

func newSaleGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("sale", args[0])
			if err != nil {
				return err
			}
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			view, err := app.Sales.GetSale(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeOne(rootOpts.formatter(cmd), view, export.SalesTable, newSaleView)
		},
	}
}
