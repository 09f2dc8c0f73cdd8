package report

import (
	"strings"
	"testing"

	"pocket/internal/core"
	"pocket/internal/ledger"
)

func TestSummaryMarkdown(t *testing.T) {
	l := ledger.New()
	acc := l.AddAccount("Cash|Wallet", core.MustMoney("100"))
	l.AddAccount("Card", core.MustMoney("-20"))
	l.AddExpense(core.MustMoney("40"), "Food", "", acc.ID)

	md := SummaryMarkdown(l)
	for _, want := range []string{
		"# Summary (USD)",
		"**Total balance:** " + l.FormatAmount(core.MustMoney("40"), true, true),
		"**Spent this period:** " + l.FormatAmount(core.MustMoney("40"), true, true),
		`| Cash\|Wallet |`,
		"| 100% |",
		"| Food |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "| Card |") {
		t.Errorf("overdrawn account listed in shares:\n%s", md)
	}
}

func TestSummaryMarkdownEmptyLedger(t *testing.T) {
	md := SummaryMarkdown(ledger.New())
	if strings.Contains(md, "## Accounts") || strings.Contains(md, "## Spending") {
		t.Errorf("empty ledger rendered tables:\n%s", md)
	}
}

func TestSummaryHTML(t *testing.T) {
	l := ledger.New()
	acc := l.AddAccount("<b>BPI</b>", core.MustMoney("10"))
	l.AddExpense(core.MustMoney("5"), "Transport", "", acc.ID)

	out, err := SummaryHTML(l)
	if err != nil {
		t.Fatalf("SummaryHTML: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<!DOCTYPE html>", "<h1>Summary (USD)</h1>", "<table>", "<td>Transport</td>", "&lt;b&gt;BPI"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<b>BPI") {
		t.Errorf("account name not escaped:\n%s", html)
	}
}

func TestMarkdownEscaping(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a|b_c", `a\|b\_c`},
		{"*bold*", `\*bold\*`},
		{"<b>", `\<b>`},
	}
	for _, tt := range tests {
		if got := mdEscape(tt.in); got != tt.want {
			t.Errorf("mdEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
