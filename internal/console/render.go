package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pocketspese/internal/core"
	"pocketspese/internal/dashboard"
	"pocketspese/internal/entry"
	"pocketspese/internal/metrics"
)

const barWidth = 20

func bar(share float64) string {
	n := int(share/100*barWidth + 0.5)
	if n < 1 && share > 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func renderDashboard(w io.Writer, v dashboard.View) {
	fmt.Fprintf(w, "Dashboard for %s\n", v.Period)
	fmt.Fprintf(w, "Total spent: %s\n\n", v.TotalLabel)

	fmt.Fprintln(w, "Spending by category")
	if !v.HasBreakdown() {
		fmt.Fprintf(w, "  %s\n", dashboard.NoBreakdownText)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, row := range v.Breakdown {
			fmt.Fprintf(tw, "  %s\t%s\t%5.1f%%\t%s\n", row.Category, row.TotalLabel, row.Share, bar(row.Share))
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\nTransactions (%s)\n", v.Filter)
	if !v.HasTransactions() {
		fmt.Fprintf(w, "  %s\n", dashboard.NoTransactionsText)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range v.Transactions {
		photo := ""
		if row.HasPhoto {
			photo = "[photo]"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n", row.ID, row.Date, row.Category, row.AmountLabel, row.Note, photo)
	}
	tw.Flush()
}

func renderList(w io.Writer, symbol string, expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range expenses {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, dashboard.FormatMoney(symbol, e.Amount), e.Note)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d expenses, %s in total\n", len(expenses), dashboard.FormatMoney(symbol, core.TotalSpending(expenses)))
}

func renderDraft(w io.Writer, d entry.Draft) {
	fmt.Fprintf(w, "Amount:   %s\n", d.Amount)
	fmt.Fprintf(w, "Category: %s\n", d.Category)
	fmt.Fprintf(w, "Date:     %s\n", d.Date)
	fmt.Fprintf(w, "Note:     %s\n", d.Note)
	fmt.Fprintf(w, "Photo:    %s\n", d.Photo)
}

func renderStats(w io.Writer, symbol string, st metrics.Stats) {
	fmt.Fprintln(w, "Session statistics")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Expenses added\t%d\n", st.Added)
	for _, c := range core.Categories() {
		if n := st.AddedByCategory[c.String()]; n > 0 {
			fmt.Fprintf(tw, "    %s\t%d\n", c, n)
		}
	}
	fmt.Fprintf(tw, "  Expenses removed\t%d\n", st.Removed)
	fmt.Fprintf(tw, "  Expenses held\t%d\n", st.Expenses)
	fmt.Fprintf(tw, "  Total held\t%s\n", dashboard.FormatMoney(symbol, core.Money{Cents: st.SpendCents}))
	fmt.Fprintf(tw, "  Store version\t%d\n", st.Version)
	fmt.Fprintf(tw, "  Dashboard cache\t%d hits, %d misses\n", st.CacheHits, st.CacheMisses)
	tw.Flush()
}
