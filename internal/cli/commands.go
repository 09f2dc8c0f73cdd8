package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"pocket/internal/ledger"
)

var errNotFound = errors.New("not found")

// Env is what every pocketctl subcommand runs against. Open is called once
// per invocation.
type Env struct {
	Out  io.Writer
	Err  io.Writer
	Open func(ctx context.Context) (*Session, error)

	// MarkdownStyle is a glamour standard style ("auto", "dark", "notty"...).
	// Empty renders without colors.
	MarkdownStyle string
}

// Register adds every pocketctl subcommand to c.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&accountsCmd{env: env}, "accounts")
	c.Register(&addAccountCmd{env: env}, "accounts")
	c.Register(&editAccountCmd{env: env}, "accounts")
	c.Register(&deleteAccountCmd{env: env}, "accounts")

	c.Register(&expensesCmd{env: env}, "expenses")
	c.Register(&addExpenseCmd{env: env}, "expenses")
	c.Register(&deleteExpenseCmd{env: env}, "expenses")

	c.Register(&resetCmd{env: env}, "period")
	c.Register(&historyCmd{env: env}, "period")
	c.Register(&summaryCmd{env: env}, "period")

	c.Register(&currencyCmd{env: env}, "settings")
	c.Register(&exportCmd{env: env}, "settings")
}

// run opens a session, applies fn and reports whether its writes landed.
func (e *Env) run(ctx context.Context, fn func(l *ledger.Ledger) error) subcommands.ExitStatus {
	s, err := e.Open(ctx)
	if err != nil {
		e.errorf("Error opening store: %v", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := s.Close(); err != nil {
			e.errorf("Error closing store: %v", err)
		}
	}()

	if err := fn(s.Ledger); err != nil {
		e.errorf("Error: %v", err)
		return subcommands.ExitFailure
	}
	if err := s.Err(); err != nil {
		e.errorf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (e *Env) errorf(format string, args ...any) {
	fmt.Fprintf(e.Err, format+"\n", args...)
}

func (e *Env) markdown(md string) error {
	style := e.MarkdownStyle
	if style == "" {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(e.Out, out)
	return err
}

func (e *Env) table() *tabwriter.Writer {
	return tabwriter.NewWriter(e.Out, 0, 4, 2, ' ', 0)
}

// requireNoArgs reports false, after printing why, when f has positional
// arguments.
func requireNoArgs(env *Env, f *flag.FlagSet) bool {
	if f.NArg() > 0 {
		env.errorf("Unexpected arguments: %v", f.Args())
		return false
	}
	return true
}
