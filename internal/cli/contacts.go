package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/internal/commands"
)

// commandError carries a command's user-facing message together with the
// underlying error used for the exit code.
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }
func (e *commandError) Unwrap() error { return e.err }

// newContactCmds returns one subcommand per handler command. Each loads the
// store, runs the command and saves if the book changed.
func newContactCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		a.oneShot("add <name> [phone] [email] [birthday]", "add", "Add a contact, or add values to an existing one", cobra.RangeArgs(1, 4)),
		a.oneShot("change <name> <old> <new>", "change", "Replace a phone number or email of a contact", cobra.ExactArgs(3)),
		a.oneShot("delete <name> <phone|email>", "delete", "Remove a phone number or email from a contact", cobra.ExactArgs(2)),
		a.oneShot("remove <name>", "remove", "Remove a contact", cobra.ExactArgs(1)),
		a.oneShot("phone <name>", "phone", "Show the phone numbers and emails of a contact", cobra.ExactArgs(1)),
		a.oneShot("birthday <name>", "birthday", "Show the days until a contact's next birthday", cobra.ExactArgs(1)),
		a.oneShot("show [name|phone <substring>]", "show all", "List contacts, optionally filtered by name or phone", cobra.MatchAll(cobra.MaximumNArgs(2), evenArgs)),
		a.oneShot("search <substring>", "search", "Find contacts by name, or by phone when the query is a number", cobra.ExactArgs(1)),
	}
}

func evenArgs(cmd *cobra.Command, args []string) error {
	if len(args)%2 != 0 {
		return fmt.Errorf("accepts a field and a substring, received %d arg(s)", len(args))
	}
	return nil
}

func (a *app) oneShot(use, command, short string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOnce(cmd, func(h *commands.Handler) commands.Result {
				return h.Run(command, args)
			})
		},
	}
}

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command line>",
		Short: "Run one line exactly as typed at the interactive prompt",
		Example: `  phonebook exec add maria 0671234567 maria@example.com 01-05-1990
  phonebook exec "show all"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			return a.runOnce(cmd, func(h *commands.Handler) commands.Result {
				return h.Execute(line)
			})
		},
	}
}

// runOnce loads the store, runs fn against it and saves when the book
// changed. A failed command returns its message as the error.
func (a *app) runOnce(cmd *cobra.Command, fn func(*commands.Handler) commands.Result) error {
	book, err := a.loadBook()
	if err != nil {
		return err
	}

	res := fn(a.newHandler(book))
	if res.Err != nil {
		return &commandError{msg: res.Output, err: res.Err}
	}
	if res.Output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Output)
	}
	if res.Changed {
		return a.saveBook(book)
	}
	return nil
}
