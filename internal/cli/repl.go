package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/phonebook/internal/commands"
)

const prompt = ">>> "

// runREPL loads the store, reads commands until an exit command, end of
// input or an interrupt, and saves the book once on the way out.
func (a *app) runREPL(cmd *cobra.Command, args []string) error {
	book, err := a.loadBook()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := a.newHandler(book)
	replErr := repl(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), h)
	if replErr != nil {
		a.logger.Warn("input error", zap.Error(replErr))
	}

	if err := a.saveBook(book); err != nil {
		return err
	}
	return replErr
}

// repl runs the read-eval-print loop. It returns nil on an exit command,
// end of input or ctx cancellation.
func repl(ctx context.Context, in io.Reader, out io.Writer, h *commands.Handler) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			fmt.Fprintln(out, commands.MsgGoodbye)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			res := h.Execute(line)
			if res.Output != "" {
				fmt.Fprintln(out, res.Output)
			}
			if res.Exit {
				return nil
			}
		}
	}
}
