package cli

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"pocket/internal/core"
	"pocket/internal/kv/memory"
	"pocket/internal/log"
)

type harness struct {
	store  *memory.Store
	logger *log.Logger
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness() *harness {
	return &harness{
		store:  memory.New(),
		logger: log.New(log.Config{Output: io.Discard, Component: log.ComponentCLI}),
	}
}

func (h *harness) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	h.out.Reset()
	h.errOut.Reset()

	fs := flag.NewFlagSet("pocketctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmdr := subcommands.NewCommander(fs, "pocketctl")
	cmdr.Output = &h.out
	cmdr.Error = &h.errOut

	Register(cmdr, &Env{
		Out: &h.out,
		Err: &h.errOut,
		Open: func(ctx context.Context) (*Session, error) {
			return NewSession(ctx, h.store, nil, h.logger), nil
		},
	})
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmdr.Execute(context.Background())
}

// state reloads what the previous commands persisted.
func (h *harness) state() *Session {
	return NewSession(context.Background(), h.store, nil, h.logger)
}

func TestAccountCommands(t *testing.T) {
	h := newHarness()

	if st := h.run(t, "add-account", "-name", "GCash", "-balance", "250,75"); st != subcommands.ExitSuccess {
		t.Fatalf("add-account status=%v err=%s", st, h.errOut.String())
	}
	accounts := h.state().Ledger.Accounts()
	if len(accounts) != 1 || !accounts[0].Balance.Equal(core.MustMoney("250.75")) {
		t.Fatalf("persisted accounts = %+v", accounts)
	}
	id := accounts[0].ID

	if st := h.run(t, "accounts"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "GCash") {
		t.Fatalf("accounts status=%v out=%s", st, h.out.String())
	}

	if st := h.run(t, "edit-account", "-id", id, "-balance", "-10"); st != subcommands.ExitSuccess {
		t.Fatalf("edit-account status=%v err=%s", st, h.errOut.String())
	}
	acc, _ := h.state().Ledger.Account(id)
	if acc.Name != "GCash" || !acc.Balance.Equal(core.MustMoney("-10")) {
		t.Fatalf("edited account = %+v", acc)
	}

	if st := h.run(t, "delete-account", "-id", id); st != subcommands.ExitSuccess {
		t.Fatalf("delete-account status=%v", st)
	}
	if st := h.run(t, "delete-account", "-id", id); st != subcommands.ExitFailure || !strings.Contains(h.errOut.String(), "not found") {
		t.Fatalf("second delete status=%v err=%s", st, h.errOut.String())
	}
}

func TestCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{"blank name", []string{"add-account", "-name", " ", "-balance", "1"}, subcommands.ExitUsageError},
		{"bad balance", []string{"add-account", "-name", "BPI", "-balance", "lots"}, subcommands.ExitUsageError},
		{"edit without id", []string{"edit-account", "-name", "x"}, subcommands.ExitUsageError},
		{"zero amount", []string{"add-expense", "-amount", "0", "-category", "Food", "-account", "a"}, subcommands.ExitUsageError},
		{"unknown account", []string{"add-expense", "-amount", "5", "-category", "Food", "-account", "ghost"}, subcommands.ExitFailure},
		{"delete expense without id", []string{"delete-expense"}, subcommands.ExitUsageError},
		{"reset with nothing", []string{"reset"}, subcommands.ExitFailure},
		{"unsupported currency", []string{"currency", "XYZ"}, subcommands.ExitUsageError},
		{"unknown export format", []string{"export", "-format", "pdf"}, subcommands.ExitUsageError},
		{"xlsx to stdout", []string{"export", "-format", "xlsx"}, subcommands.ExitUsageError},
		{"export nothing", []string{"export"}, subcommands.ExitFailure},
		{"stray argument", []string{"accounts", "extra"}, subcommands.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			if got := h.run(t, tt.args...); got != tt.want {
				t.Errorf("status = %v, want %v (err=%s)", got, tt.want, h.errOut.String())
			}
		})
	}
}

func TestExpenseAndPeriodCommands(t *testing.T) {
	h := newHarness()
	h.run(t, "add-account", "-name", "Cash", "-balance", "100")
	accID := h.state().Ledger.Accounts()[0].ID

	st := h.run(t, "add-expense", "-amount", "150", "-category", "Food", "-account", accID)
	if st != subcommands.ExitFailure || !strings.Contains(h.errOut.String(), core.ErrInsufficientFunds.Error()) {
		t.Fatalf("overdraft status=%v err=%s", st, h.errOut.String())
	}

	if st := h.run(t, "add-expense", "-amount", "40", "-category", "Food", "-note", "groceries", "-account", accID); st != subcommands.ExitSuccess {
		t.Fatalf("add-expense status=%v err=%s", st, h.errOut.String())
	}
	if st := h.run(t, "add-expense", "-amount", "10", "-category", "Transport", "-account", accID); st != subcommands.ExitSuccess {
		t.Fatalf("add-expense status=%v err=%s", st, h.errOut.String())
	}

	if st := h.run(t, "expenses"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "groceries") {
		t.Fatalf("expenses status=%v out=%s", st, h.out.String())
	}

	if st := h.run(t, "export"); st != subcommands.ExitSuccess || !strings.HasPrefix(h.out.String(), "ID,Date,Category,Amount,Note,AccountId") {
		t.Fatalf("export status=%v out=%s", st, h.out.String())
	}

	if st := h.run(t, "summary"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "Transport") {
		t.Fatalf("summary status=%v out=%s", st, h.out.String())
	}

	if st := h.run(t, "reset"); st != subcommands.ExitSuccess {
		t.Fatalf("reset status=%v err=%s", st, h.errOut.String())
	}
	s := h.state()
	if len(s.Ledger.Expenses()) != 0 || len(s.Ledger.History()) != 1 {
		t.Fatalf("after reset expenses=%d history=%d", len(s.Ledger.Expenses()), len(s.Ledger.History()))
	}
	if acc, _ := s.Ledger.Account(accID); !acc.Balance.Equal(core.MustMoney("50")) {
		t.Fatalf("balance after reset = %s, want 50", acc.Balance)
	}
	histID := s.Ledger.History()[0].ID

	if st := h.run(t, "history"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), histID) {
		t.Fatalf("history status=%v out=%s", st, h.out.String())
	}
	if st := h.run(t, "history", "-id", histID); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "groceries") {
		t.Fatalf("history -id status=%v out=%s", st, h.out.String())
	}
	if st := h.run(t, "history", "-id", "missing"); st != subcommands.ExitFailure {
		t.Fatalf("history -id missing status=%v", st)
	}

	out := filepath.Join(t.TempDir(), "history.csv")
	if st := h.run(t, "export", "-format", "history", "-o", out); st != subcommands.ExitSuccess {
		t.Fatalf("export history status=%v err=%s", st, h.errOut.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "HistoryID,ResetDate,ExpenseID") {
		t.Fatalf("history csv = %q", data)
	}
}

func TestCurrencyCommand(t *testing.T) {
	h := newHarness()

	if st := h.run(t, "currency"); st != subcommands.ExitSuccess || !strings.HasPrefix(h.out.String(), "USD") {
		t.Fatalf("currency status=%v out=%s", st, h.out.String())
	}
	if st := h.run(t, "currency", "eur"); st != subcommands.ExitSuccess {
		t.Fatalf("set currency status=%v err=%s", st, h.errOut.String())
	}
	if got := h.state().Ledger.Currency(); got != "EUR" {
		t.Fatalf("persisted currency = %s", got)
	}
}

func TestCompletionCoversCommands(t *testing.T) {
	fs := flag.NewFlagSet("pocketctl", flag.ContinueOnError)
	cmdr := subcommands.NewCommander(fs, "pocketctl")
	Register(cmdr, &Env{Out: io.Discard, Err: io.Discard})

	comp := Completion()
	cmdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		sub, ok := comp.Sub[c.Name()]
		if !ok {
			t.Errorf("no completion for %q", c.Name())
			return
		}
		cf := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(cf)
		cf.VisitAll(func(f *flag.Flag) {
			if _, ok := sub.Flags[f.Name]; !ok {
				t.Errorf("no completion for %s -%s", c.Name(), f.Name)
			}
		})
	})
}

func TestSummaryMarkdown(t *testing.T) {
	h := newHarness()
	if st := h.run(t, "summary"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "Summary (USD)") {
		t.Fatalf("empty summary status=%v out=%s", st, h.out.String())
	}
	if strings.Contains(h.out.String(), "Spending by category") {
		t.Errorf("empty ledger rendered a category table: %s", h.out.String())
	}
}
