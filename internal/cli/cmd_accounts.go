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

type accountsCmd struct {
	env *Env
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `pocketctl accounts

  Lists every account with its balance in the active currency.
`
}

func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !requireNoArgs(c.env, f) {
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		tw := c.env.table()
		fmt.Fprintln(tw, "ID\tNAME\tBALANCE")
		for _, a := range l.Accounts() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.Name, l.FormatAmount(a.Balance, true, true))
		}
		fmt.Fprintf(tw, "\tTotal\t%s\n", l.FormatAmount(l.TotalBalance(), true, true))
		return tw.Flush()
	})
}

type addAccountCmd struct {
	env     *Env
	name    string
	balance string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `pocketctl add-account -name <name> -balance <amount>

  Creates an account. The balance may be negative, e.g. for a credit card.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name, e.g. one of the preset institutions")
	f.StringVar(&c.balance, "balance", "", "opening balance; ',' is accepted as decimal separator")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.TrimSpace(c.name)
	if err := core.ValidateAccountInput(name); err != nil {
		c.env.errorf("Error: %v", err)
		return subcommands.ExitUsageError
	}
	balance, err := core.ParseBalance(c.balance)
	if err != nil {
		c.env.errorf("Error: balance must be a valid number")
		return subcommands.ExitUsageError
	}

	return c.env.run(ctx, func(l *ledger.Ledger) error {
		acc := l.AddAccount(name, balance)
		fmt.Fprintf(c.env.Out, "Created account %s (%s) with balance %s\n", acc.Name, acc.ID, l.FormatAmount(acc.Balance, true, true))
		return nil
	})
}

type editAccountCmd struct {
	env     *Env
	id      string
	name    string
	balance string
}

func (*editAccountCmd) Name() string     { return "edit-account" }
func (*editAccountCmd) Synopsis() string { return "rename an account or overwrite its balance" }
func (*editAccountCmd) Usage() string {
	return `pocketctl edit-account -id <id> [-name <name>] [-balance <amount>]

  Updates an account. Omitted fields keep their current value.
`
}

func (c *editAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "account id")
	f.StringVar(&c.name, "name", "", "new name")
	f.StringVar(&c.balance, "balance", "", "new balance")
}

func (c *editAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		c.env.errorf("Error: -id is required")
		return subcommands.ExitUsageError
	}

	var balance *core.Money
	if strings.TrimSpace(c.balance) != "" {
		b, err := core.ParseBalance(c.balance)
		if err != nil {
			c.env.errorf("Error: balance must be a valid number")
			return subcommands.ExitUsageError
		}
		balance = &b
	}

	return c.env.run(ctx, func(l *ledger.Ledger) error {
		acc, ok := l.Account(c.id)
		if !ok {
			return fmt.Errorf("account %q %w", c.id, errNotFound)
		}
		name := acc.Name
		if n := strings.TrimSpace(c.name); n != "" {
			name = n
		}
		if balance != nil {
			acc.Balance = *balance
		}
		l.EditAccount(acc.ID, name, acc.Balance)
		fmt.Fprintf(c.env.Out, "Updated account %s: %s, %s\n", acc.ID, name, l.FormatAmount(acc.Balance, true, true))
		return nil
	})
}

type deleteAccountCmd struct {
	env *Env
	id  string
}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete an account" }
func (*deleteAccountCmd) Usage() string {
	return `pocketctl delete-account -id <id>

  Deletes an account. Expenses already recorded against it are kept.
`
}

func (c *deleteAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "account id")
}

func (c *deleteAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		c.env.errorf("Error: -id is required")
		return subcommands.ExitUsageError
	}
	return c.env.run(ctx, func(l *ledger.Ledger) error {
		if !l.DeleteAccount(c.id) {
			return fmt.Errorf("account %q %w", c.id, errNotFound)
		}
		fmt.Fprintf(c.env.Out, "Deleted account %s\n", c.id)
		return nil
	})
}
