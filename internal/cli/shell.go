package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/roach88/gestion/internal/model"
)

// Prompt is printed before each shell line in text mode.
const Prompt = "gestion> "

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively",
		Long: `Read commands from standard input, one per line, and run them against
the same database. Each line is a gestion command without the program name,
with shell-style quoting:

  client add --name "Ana Pérez"
  sale record --client 1 --product 1 --quantity 2
  sale list

A failing line is reported and the session continues. "quit" or "exit"
(or end of input) ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.inShell {
				return NewExitError(ExitCommandError, "already in a shell")
			}
			return runShell(rootOpts, cmd)
		},
	}
}

func runShell(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if _, err := opts.openApp(); err != nil {
		return err
	}
	slog.Debug("shell started")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	lines := 0
	for {
		if opts.Format == "text" {
			fmt.Fprint(out, Prompt)
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		lines++

		words, err := shellwords.Parse(line)
		if err != nil {
			opts.formatter(cmd).Report(model.NewValidationError("line", "cannot parse %q: %v", line, err))
			continue
		}

		lineOpts := *opts
		lineOpts.inShell = true
		sub := newRootCommand(&lineOpts)
		sub.SetArgs(words)
		sub.SetIn(strings.NewReader(""))
		sub.SetOut(out)
		sub.SetErr(errOut)
		if err := sub.ExecuteContext(ctx); err != nil {
			f := lineOpts.formatter(sub)
			if !isValidFormat(f.Format) {
				f.Format = opts.Format
			}
			exitErr := f.Report(err)
			slog.Debug("shell command failed", "line", lines, "exit_code", exitErr.Code)
		}
	}
	if opts.Format == "text" {
		fmt.Fprintln(out)
	}

	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	slog.Debug("shell finished", "commands", lines)
	return nil
}
