package core

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Name  Category
	Total Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryTotal
}

// TotalSpending sums the amounts of expenses. It returns zero for an empty
// input; no rounding is applied.
func TotalSpending(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryBreakdown groups expenses by category and sums each group.
//
// The result holds exactly one entry per category present in expenses, in the
// order each category is first seen. Categories without expenses are omitted.
func CategoryBreakdown(expenses []Expense) []CategoryTotal {
	index := make(map[Category]int)
	out := make([]CategoryTotal, 0)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Name: e.Category})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out
}

// FilterMonth returns the expenses dated within year/month, preserving order.
func FilterMonth(expenses []Expense, year, month int) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.InMonth(year, month) {
			out = append(out, e)
		}
	}
	return out
}

// FilterCategory returns the expenses in category c. All matches everything.
func FilterCategory(expenses []Expense, c Category) []Expense {
	if c == All {
		return append([]Expense(nil), expenses...)
	}
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Overview summarises the expenses of year/month.
func Overview(expenses []Expense, year, month int) MonthOverview {
	inMonth := FilterMonth(expenses, year, month)
	return MonthOverview{
		Year:       year,
		Month:      month,
		Total:      TotalSpending(inMonth),
		ByCategory: CategoryBreakdown(inMonth),
	}
}
