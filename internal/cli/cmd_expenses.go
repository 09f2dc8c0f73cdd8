package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"pocket/internal/core"
	"pocket/internal/ledger"
)

const dateLayout = "2006-01-02 15:04"

type expensesCmd struct {
	env *Env
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "list the expenses of the current period" }
func (*expensesCmd) Usage() string {
	return `pocketctl expenses

  Lists the current period's expenses, newest first, and their total.
`
}

func (*expensesCmd) SetFlags(*flag.FlagSet) {}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !requireNoArgs(c.env, f) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		names := accountNames(l)
		tw := c.env.table()
		fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tACCOUNT\tNOTE")
		var total core.Money
		for _, e := range l.Expenses() {
			total = total.Add(e.Amount)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Date.Local().Format(dateLayout), e.Category,
				l.FormatAmount(e.Amount, true, true), names(e.AccountID), e.Note)
		}
		fmt.Fprintf(tw, "\t\tTotal\t%s\t\t\n", l.FormatAmount(total, true, true))
		return tw.Flush()
	})
}

type addExpenseCmd struct {
	env       *Env
	amount    string
	category  string
	note      string
	accountID string
}

func (*addExpenseCmd) Name() string     { return "add-expense" }
func (*addExpenseCmd) Synopsis() string { return "record an expense against an account" }
func (*addExpenseCmd) Usage() string {
	return `pocketctl add-expense -amount <amount> -category <category> -account <id> [-note <text>]

  Records an expense and deducts it from the account. The account must hold
  at least the amount.
`
}

func (c *addExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "positive amount")
	f.StringVar(&c.category, "category", "", "category, e.g. "+strings.Join(core.Categories, ", "))
	f.StringVar(&c.note, "note", "", "optional note")
	f.StringVar(&c.accountID, "account", "", "id of the paying account")
}

func (c *addExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		c.env.errorf("Error: %v", core.ErrInvalidAmount)
		return subcommands.ExitUsageError
	}
	category := strings.TrimSpace(c.category)

	return c.env.run(ctx, func(l *ledger.Ledger) error {
		e, err := l.SpendFrom(amount, category, c.note, c.accountID)
		if err != nil {
			return err
		}
		updated, _ := l.Account(e.AccountID)
		fmt.Fprintf(c.env.Out, "Recorded %s %s from %s (%s); balance now %s\n",
			l.FormatAmount(e.Amount, true, true), e.Category, updated.Name, e.ID,
			l.FormatAmount(updated.Balance, true, true))
		return nil
	})
}

type deleteExpenseCmd struct {
	env *Env
	id  string
}

func (*deleteExpenseCmd) Name() string     { return "delete-expense" }
func (*deleteExpenseCmd) Synopsis() string { return "delete an expense and refund its account" }
func (*deleteExpenseCmd) Usage() string {
	return `pocketctl delete-expense -id <id>

  Deletes an expense of the current period. The amount goes back to the
  account if it still exists.
`
}

func (c *deleteExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "expense id")
}

func (c *deleteExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		c.env.errorf("Error: -id is required")
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		if !l.DeleteExpense(c.id) {
			return fmt.Errorf("expense %q %w", c.id, errNotFound)
		}
		fmt.Fprintf(c.env.Out, "Deleted expense %s\n", c.id)
		return nil
	})
}

// accountNames resolves account ids to names, falling back to the id for
// deleted accounts.
func accountNames(l *ledger.Ledger) func(id string) string {
	byID := map[string]string{}
	for _, a := range l.Accounts() {
		byID[a.ID] = a.Name
	}
	return func(id string) string {
		if name, ok := byID[id]; ok {
			return name
		}
		return id
	}
}
