package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pocket/internal/ledger"
	"pocket/internal/report"
)

type resetCmd struct {
	env *Env
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "archive the current expenses and start a new period" }
func (*resetCmd) Usage() string {
	return `pocketctl reset

  Moves every current expense into a new history entry. Balances are not
  changed.
`
}

func (*resetCmd) SetFlags(*flag.FlagSet) {}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !requireNoArgs(c.env, f) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		item, ok := l.ResetPeriod()
		if !ok {
			return errors.New("there are no expenses to reset")
		}
		fmt.Fprintf(c.env.Out, "Archived %d expenses totalling %s as %s\n",
			len(item.Expenses), l.FormatAmount(item.Total, true, true), item.ID)
		return nil
	})
}

type historyCmd struct {
	env *Env
	id  string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list archived periods" }
func (*historyCmd) Usage() string {
	return `pocketctl history [-id <history id>]

  Lists archived periods, newest first. With -id, lists the expenses of one
  period.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "show the expenses of this period")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !requireNoArgs(c.env, f) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		history := l.History()
		tw := c.env.table()

		if c.id == "" {
			fmt.Fprintln(tw, "ID\tRESET\tEXPENSES\tTOTAL")
			for _, h := range history {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
					h.ID, h.Date.Local().Format(dateLayout), len(h.Expenses), l.FormatAmount(h.Total, true, true))
			}
			return tw.Flush()
		}

		for _, h := range history {
			if h.ID != c.id {
				continue
			}
			names := accountNames(l)
			fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tACCOUNT\tNOTE")
			for _, e := range h.Expenses {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Date.Local().Format(dateLayout), e.Category,
					l.FormatAmount(e.Amount, true, true), names(e.AccountID), e.Note)
			}
			fmt.Fprintf(tw, "\t\tTotal\t%s\t\t\n", l.FormatAmount(h.Total, true, true))
			return tw.Flush()
		}
		return fmt.Errorf("history entry %q %w", c.id, errNotFound)
	})
}

type summaryCmd struct {
	env *Env
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show balances and spending by category" }
func (*summaryCmd) Usage() string {
	return `pocketctl summary

  Shows the total balance, each funded account's share of it and the current
  period's spending by category.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !requireNoArgs(c.env, f) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		return c.env.markdown(report.SummaryMarkdown(l))
	})
}
