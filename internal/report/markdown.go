// Package report renders ledger summaries for people rather than programs.
package report

import (
	"fmt"
	"strings"

	"pocket/internal/core"
	"pocket/internal/ledger"
)

// SummaryMarkdown describes balances, account shares and the current
// period's spending as a markdown document.
func SummaryMarkdown(l *ledger.Ledger) string {
	amount := func(m core.Money) string { return mdEscape(l.FormatAmount(m, true, true)) }
	cats := l.CategoryTotals()
	spent := core.Money{}
	for _, cat := range cats {
		spent = spent.Add(cat.Amount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Summary (%s)\n\n", l.Currency())
	fmt.Fprintf(&b, "- **Total balance:** %s\n", amount(l.TotalBalance()))
	fmt.Fprintf(&b, "- **Available:** %s\n", amount(l.PositiveBalanceTotal()))
	fmt.Fprintf(&b, "- **Spent this period:** %s\n", amount(spent))

	if shares := l.AccountShares(); len(shares) > 0 {
		b.WriteString("\n## Accounts\n\n| Account | Balance | Share |\n|---|---:|---:|\n")
		for _, s := range shares {
			fmt.Fprintf(&b, "| %s | %s | %d%% |\n", mdEscape(s.Account.Name), amount(s.Account.Balance), s.Percent)
		}
	}

	if len(cats) > 0 {
		b.WriteString("\n## Spending by category\n\n| Category | Spent |\n|---|---:|\n")
		for _, cat := range cats {
			fmt.Fprintf(&b, "| %s | %s |\n", mdEscape(cat.Name), amount(cat.Amount))
		}
	}
	return b.String()
}

var mdReplacer = strings.NewReplacer("|", "\\|", "*", "\\*", "_", "\\_", "`", "\\`", "<", "\\<")

func mdEscape(s string) string { return mdReplacer.Replace(s) }
