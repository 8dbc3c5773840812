package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"saldo/internal/core"
)

// TerminalRenderer renders Markdown for a terminal of the given width.
func TerminalRenderer(width int) func(string) (string, error) {
	return func(md string) (string, error) {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		return r.Render(md)
	}
}

// escapeCell keeps user text from breaking a Markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

// LedgerMarkdown lists the transactions newest first under the anchor.
func LedgerMarkdown(l core.Ledger, current core.Money, currency string) string {
	var b strings.Builder
	b.WriteString("# Ledger\n\n")
	if l.HasAnchor() {
		fmt.Fprintf(&b, "Initial balance: **%s** on %s\n\n", l.InitialBalance.Format(currency), l.InitialDate)
	} else {
		b.WriteString("No initial balance set.\n\n")
	}
	fmt.Fprintf(&b, "Current balance: **%s**\n\n", current.Format(currency))

	if len(l.Transactions) == 0 {
		b.WriteString("_No transactions._\n")
		return b.String()
	}
	rows := make([][]string, 0, len(l.Transactions))
	for _, t := range l.SortedByDateDesc() {
		rows = append(rows, []string{t.Date.String(), string(t.Kind), t.Signed().Format(currency), string(t.Recurrence), t.Description, t.ID})
	}
	writeTable(&b, []string{"Date", "Kind", "Amount", "Recurrence", "Description", "ID"}, rows)
	return b.String()
}

// AggregatesMarkdown renders one row per month.
func AggregatesMarkdown(months []core.MonthOverview, currency string) string {
	var b strings.Builder
	b.WriteString("# Monthly report\n\n")
	rows := make([][]string, 0, len(months))
	for _, o := range months {
		rows = append(rows, []string{
			fmt.Sprintf("%04d-%02d", o.Year, o.Month),
			o.Income.Format(currency),
			o.Expense.Format(currency),
			o.Net().Format(currency),
			fmt.Sprint(o.Count),
		})
	}
	writeTable(&b, []string{"Month", "Income", "Expense", "Net", "Transactions"}, rows)
	return b.String()
}

// ProjectionMarkdown renders the projected balance at each sample date.
func ProjectionMarkdown(points []core.BalancePoint, currency string) string {
	var b strings.Builder
	b.WriteString("# Projection\n\n")
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Date.String(), p.Balance.Format(currency)})
	}
	writeTable(&b, []string{"Date", "Balance"}, rows)
	return b.String()
}
