package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/gestion/internal/export"
	"github.com/roach88/gestion/internal/model"
)

// ClientOptions holds flags for the client subcommands.
type ClientOptions struct {
	*RootOptions
	Name  string
	Email string
	Phone string
	Note  string
}

// NewClientCommand creates the client command group.
func NewClientCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}

	cmd.AddCommand(newClientAddCommand(rootOpts))
	cmd.AddCommand(newClientListCommand(rootOpts))
	cmd.AddCommand(newClientGetCommand(rootOpts))
	cmd.AddCommand(newClientEditCommand(rootOpts))
	cmd.AddCommand(newClientDeleteCommand(rootOpts))

	return cmd
}

func (o *ClientOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Name, "name", "", "client name")
	cmd.Flags().StringVar(&o.Email, "email", "", "email address")
	cmd.Flags().StringVar(&o.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&o.Note, "note", "", "free-form note")
}

func newClientAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Long: `Add a client. The name is required; email, phone and note are optional.

Example:
  gestion client add --name "Ana Pérez" --email ana@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp()
			if err != nil {
				return err
			}
			c, err := app.Clients.Add(cmd.Context(), model.ClientFields{
				Name:  opts.Name,
				Email: opts.Email,
				Phone: opts.Phone,
				Note:  opts.Note,
			})
			if err != nil {
				return err
			}
			return writeOne(opts.formatter(cmd), c, export.ClientsTable, identity[model.Client])
		},
	}
	opts.bindFlags(cmd)

	return cmd
}

func newClientListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clients by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			return writeList(rootOpts.formatter(cmd), app.Clients.List(cmd.Context()), export.ClientsTable, identity[model.Client])
		},
	}
}

func newClientGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			c, err := app.Clients.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeOne(rootOpts.formatter(cmd), c, export.ClientsTable, identity[model.Client])
		},
	}
}

func newClientEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a client",
		Long: `Change fields of a client. Only the flags given are changed;
pass an empty value to clear an optional field.

Example:
  gestion client edit 3 --phone 555-0199 --note ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}
			app, err := opts.openApp()
			if err != nil {
				return err
			}

			var patch model.ClientPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &opts.Name
			}
			if flags.Changed("email") {
				patch.Email = &opts.Email
			}
			if flags.Changed("phone") {
				patch.Phone = &opts.Phone
			}
			if flags.Changed("note") {
				patch.Note = &opts.Note
			}

			c, err := app.Clients.Edit(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return writeOne(opts.formatter(cmd), c, export.ClientsTable, identity[model.Client])
		},
	}
	opts.bindFlags(cmd)

	return cmd
}

func newClientDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client; its sales are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("client", args[0])
			if err != nil {
				return err
			}
			app, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			if err := app.Clients.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(deleted{Kind: "client", ID: id, Deleted: true})
		},
	}
}
