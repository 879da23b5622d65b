package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/gestion/internal/config"
	"github.com/roach88/gestion/internal/sales"
)

// RootOptions holds global flags for all commands and the state shared by
// the commands of one invocation.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigPath string
	PageSize   int

	resolved bool
	inShell  bool
	runID    string
	app      *App
	clock    sales.Clock // nil uses the wall clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gestion CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Format: config.DefaultFormat})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gestion",
		Short: "gestion - inventory and sales ledger",
		Long: `Keep track of clients, products and sales in a local SQLite database.

Recording a sale decrements stock and fixes the sale total at the current
price. Sales survive the deletion of the client or product they reference.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", opts.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", opts.Database, "path to SQLite database (default from config: "+config.DefaultDatabase+")")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "path to YAML config file (default "+config.DefaultFile+" if present)")

	// Add subcommands
	cmd.AddCommand(NewClientCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewSaleCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

// resolve merges config with the flags given on the command line and
// installs the logger. It runs once per invocation.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}
	if o.resolved {
		return nil
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	flags := cmd.Flags()
	if !flags.Changed("db") {
		o.Database = cfg.Database
	}
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("verbose") {
		o.Verbose = cfg.Verbose
	}
	o.PageSize = cfg.PageSize

	o.runID = uuid.Must(uuid.NewV7()).String()
	setupLogging(cmd.ErrOrStderr(), o.Verbose, o.runID)
	o.resolved = true

	slog.Debug("config resolved", "db", o.Database, "format", o.Format, "page_size", o.PageSize)
	return nil
}

// openApp opens the database on first use.
func (o *RootOptions) openApp() (*App, error) {
	if o.app != nil {
		return o.app, nil
	}
	app, err := OpenApp(o.Database, o.PageSize, o.clock)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	o.app = app
	return app, nil
}

func (o *RootOptions) close() {
	if o.app == nil {
		return
	}
	if err := o.app.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
	o.app = nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// Execute runs the CLI with args and reports any failure on out or errOut.
// The returned error is an *ExitError; pass it to GetExitCode.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	return execute(ctx, &RootOptions{Format: config.DefaultFormat}, args, in, out, errOut)
}

func execute(ctx context.Context, opts *RootOptions, args []string, in io.Reader, out, errOut io.Writer) error {
	defer opts.close()

	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		f := &OutputFormatter{Format: opts.Format, Writer: out, ErrWriter: errOut, Verbose: opts.Verbose}
		if !isValidFormat(f.Format) {
			f.Format = config.DefaultFormat
		}
		return f.Report(err)
	}
	return nil
}

// setupLogging installs the default logger. Every record carries the run id
// so the lines of one invocation can be correlated.
func setupLogging(w io.Writer, verbose bool, runID string) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler).With("run", runID))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
