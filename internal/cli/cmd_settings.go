package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"pocket/internal/currency"
	"pocket/internal/export"
	"pocket/internal/ledger"
)

type currencyCmd struct {
	env *Env
}

func (*currencyCmd) Name() string     { return "currency" }
func (*currencyCmd) Synopsis() string { return "show or change the display currency" }
func (*currencyCmd) Usage() string {
	return `pocketctl currency [<code>]

  Without argument, prints the active currency. With a code (USD, EUR, JPY,
  GBP, PHP), makes it active. Amounts are relabelled, not converted.
`
}

func (*currencyCmd) SetFlags(*flag.FlagSet) {}

func (c *currencyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		c.env.errorf("Error: expected at most one currency code")
		return subcommands.ExitUsageError
	}

	if f.NArg() == 0 {
		return c.env.run(ctx, func(l *ledger.Ledger) error {
			code := l.Currency()
			fmt.Fprintf(c.env.Out, "%s (%s)\n", code, currency.Symbol(code))
			return nil
		})
	}

	code, err := currency.Parse(f.Arg(0))
	if err != nil {
		c.env.errorf("Error: %v %q", err, f.Arg(0))
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		l.SetCurrency(code)
		fmt.Fprintf(c.env.Out, "Currency set to %s (%s)\n", code, currency.Symbol(code))
		return nil
	})
}

type exportCmd struct {
	env    *Env
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export expenses or history" }
func (*exportCmd) Usage() string {
	return `pocketctl export [-format expenses|history|xlsx] [-o <file>]

  Writes the current expenses or the archived history as CSV, or both as an
  Excel workbook. Output goes to stdout unless -o is given; xlsx requires -o.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "expenses", "what to export: expenses, history or xlsx")
	f.StringVar(&c.output, "o", "", "output file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !requireNoArgs(c.env, f) {
		return subcommands.ExitUsageError
	}

	var render func(l *ledger.Ledger, w io.Writer) error
	switch c.format {
	case "expenses":
		render = func(l *ledger.Ledger, w io.Writer) error { return export.ExpensesCSV(w, l.Expenses()) }
	case "history":
		render = func(l *ledger.Ledger, w io.Writer) error { return export.HistoryCSV(w, l.History()) }
	case "xlsx":
		if c.output == "" {
			c.env.errorf("Error: -o is required for xlsx")
			return subcommands.ExitUsageError
		}
		render = func(l *ledger.Ledger, w io.Writer) error { return export.ExpensesXLSX(w, l.Snapshot()) }
	default:
		c.env.errorf("Error: unknown format %q", c.format)
		return subcommands.ExitUsageError
	}

	return c.env.run(ctx, func(l *ledger.Ledger) error {
		var buf bytes.Buffer
		if err := render(l, &buf); err != nil {
			if errors.Is(err, export.ErrNoData) {
				return err
			}
			return fmt.Errorf("export %s: %w", c.format, err)
		}

		if c.output == "" {
			if _, err := buf.WriteTo(c.env.Out); err != nil {
				return err
			}
			fmt.Fprintln(c.env.Out)
			return nil
		}
		if err := os.WriteFile(c.output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", c.output, err)
		}
		fmt.Fprintf(c.env.Out, "Wrote %s\n", c.output)
		return nil
	})
}
