package cli

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/gestion/internal/export"
	"github.com/roach88/gestion/internal/model"
)

// ExportOptions holds flags for the export subcommands.
type ExportOptions struct {
	*RootOptions
	Output string
}

// exportResult is the JSON payload of an export written to a file.
type exportResult struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
}

func (r exportResult) String() string {
	return fmt.Sprintf("exported %s to %s", r.Collection, r.Path)
}

// exporter writes one collection of app to w, or to a file when path is set.
type exporter func(ctx context.Context, app *App, w io.Writer, path string) error

func exportTo[T any](table export.Table[T], list func(ctx context.Context, app *App) iter.Seq2[T, error]) exporter {
	return func(ctx context.Context, app *App, w io.Writer, path string) error {
		if path != "" {
			return export.WriteFile(path, table, list(ctx, app))
		}
		return export.Write(w, table, list(ctx, app))
	}
}

// NewExportCommand creates the export command group.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a collection as CSV",
		Long: `Export clients, products or sales as UTF-8 CSV with a header row.

Without --output the CSV is written to standard output regardless of
--format. With --output the file is replaced only once fully written.

Examples:
  gestion export sales
  gestion export products -o products.csv`,
	}

	cmd.AddCommand(newExportCollectionCommand(rootOpts, "clients",
		exportTo(export.ClientsTable, func(ctx context.Context, app *App) iter.Seq2[model.Client, error] {
			return app.Clients.List(ctx)
		})))
	cmd.AddCommand(newExportCollectionCommand(rootOpts, "products",
		exportTo(export.ProductsTable, func(ctx context.Context, app *App) iter.Seq2[model.Product, error] {
			return app.Products.List(ctx)
		})))
	cmd.AddCommand(newExportCollectionCommand(rootOpts, "sales",
		exportTo(export.SalesTable, func(ctx context.Context, app *App) iter.Seq2[model.SaleView, error] {
			return app.Sales.ListSales(ctx)
		})))

	return cmd
}

func newExportCollectionCommand(rootOpts *RootOptions, collection string, run exporter) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   collection,
		Short: "Export " + collection,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp()
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), app, cmd.OutOrStdout(), opts.Output); err != nil {
				return fmt.Errorf("export %s: %w", collection, err)
			}
			if opts.Output == "" {
				return nil
			}
			slog.Debug("export written", "collection", collection, "path", opts.Output)
			return opts.formatter(cmd).Success(exportResult{Collection: collection, Path: opts.Output})
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to this file instead of standard output")

	return cmd
}
