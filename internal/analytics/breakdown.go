package analytics

import (
	"sort"

	"fintrack/internal/core"
)

// GroupKey selects the transaction field used to partition a breakdown.
type GroupKey string

const (
	GroupByCategory      GroupKey = "category"
	GroupByPaymentMethod GroupKey = "payment_method"
)

// SignFilter restricts a breakdown to one side of the ledger.
type SignFilter string

const (
	SignAll      SignFilter = "all"
	SignExpenses SignFilter = "expenses"
	SignIncome   SignFilter = "income"
)

// CategoryTotal is one row of a breakdown: the grouped magnitude and its share
// of the group total.
type CategoryTotal struct {
	Label       string  `json:"label"`
	AmountCents int64   `json:"amount_cents"`
	Percentage  float64 `json:"percentage"`
}

// Breakdown groups transactions by the chosen key, sums absolute amounts per
// group and computes each group's percentage of the total. Rows are sorted
// descending by amount; ties keep the order in which the groups were first
// seen. Blank keys map to core.CategoryFallback or core.PaymentMethodFallback.
//
// The expense class is strictly negative amounts; a zero amount is income.
func Breakdown(txns []core.Transaction, key GroupKey, sign SignFilter) []CategoryTotal {
	sums := make(map[string]int64)
	var order []string
	var total int64

	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		switch sign {
		case SignExpenses:
			if !t.IsExpense() {
				continue
			}
		case SignIncome:
			if t.IsExpense() {
				continue
			}
		}

		label := t.CategoryLabel()
		if key == GroupByPaymentMethod {
			label = t.PaymentMethodLabel()
		}

		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		amount := t.Amount.Abs()
		sums[label] += amount
		total += amount
	}

	rows := make([]CategoryTotal, 0, len(order))
	for _, label := range order {
		row := CategoryTotal{Label: label, AmountCents: sums[label]}
		if total > 0 {
			row.Percentage = 100 * float64(row.AmountCents) / float64(total)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AmountCents > rows[j].AmountCents
	})
	return rows
}

// TopN truncates a breakdown to its n largest rows. The dropped tail is not
// folded into an "Other" row, so truncated percentages sum to less than 100;
// the charts historically rendered exactly that.
func TopN(rows []CategoryTotal, n int) []CategoryTotal {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
