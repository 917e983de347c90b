package analytics

import (
	"fmt"
	"sort"
	"time"

	"fintrack/internal/core"
)

// Granularity is the calendar bucket size for period aggregation.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// DefaultBucketLimit is how many most-recent buckets are retained when the
// caller does not say otherwise.
const DefaultBucketLimit = 12

// PeriodBucket accumulates income and expense for one calendar bucket.
// SortDate is the earliest transaction date inside the bucket and is used
// for chronological ordering only, never for display.
type PeriodBucket struct {
	PeriodKey    string    `json:"period"`
	IncomeCents  int64     `json:"income_cents"`
	ExpenseCents int64     `json:"expense_cents"`
	SortDate     time.Time `json:"-"`
}

// Buckets groups transactions into calendar buckets of the given granularity,
// sorted ascending by date and truncated to the most recent limit buckets
// (limit <= 0 means DefaultBucketLimit). The second return value is the
// largest single income or expense across retained buckets, for axis scaling;
// it is 0 when there are no buckets.
//
// Week keys follow ISO-8601 week numbering ("2024-W05", Monday start, week 1
// contains the year's first Thursday) via time.Time.ISOWeek.
func Buckets(txns []core.Transaction, g Granularity, limit int) ([]PeriodBucket, int64, error) {
	switch g {
	case ByDay, ByWeek, ByMonth:
	default:
		return nil, 0, fmt.Errorf("unknown period granularity %q", g)
	}
	if limit <= 0 {
		limit = DefaultBucketLimit
	}

	byKey := make(map[string]*PeriodBucket)
	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		key := periodKey(t.Date, g)
		b, ok := byKey[key]
		if !ok {
			b = &PeriodBucket{PeriodKey: key, SortDate: t.Date}
			byKey[key] = b
		} else if t.Date.Before(b.SortDate) {
			// Earliest date in the bucket keeps ordering independent of
			// input permutation.
			b.SortDate = t.Date
		}
		if t.IsExpense() {
			b.ExpenseCents += t.Amount.Abs()
		} else {
			b.IncomeCents += t.Amount.Cents
		}
	}

	buckets := make([]PeriodBucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].SortDate.Equal(buckets[j].SortDate) {
			return buckets[i].PeriodKey < buckets[j].PeriodKey
		}
		return buckets[i].SortDate.Before(buckets[j].SortDate)
	})

	if len(buckets) > limit {
		buckets = buckets[len(buckets)-limit:]
	}

	var max int64
	for _, b := range buckets {
		if b.IncomeCents > max {
			max = b.IncomeCents
		}
		if b.ExpenseCents > max {
			max = b.ExpenseCents
		}
	}
	return buckets, max, nil
}

func periodKey(d time.Time, g Granularity) string {
	switch g {
	case ByDay:
		return d.Format("2006-01-02")
	case ByWeek:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return d.Format("2006-01")
	}
}
