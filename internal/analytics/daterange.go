// Package analytics derives chart-ready structures from transaction lists.
//
// Every function here is pure: the input slice is never mutated, the current
// time is always an explicit parameter, and identical inputs yield identical
// outputs. Records with a zero date are treated as malformed and skipped
// rather than aborting the whole derivation.
package analytics

import (
	"time"

	"fintrack/internal/core"
)

// Range selects how far back from "now" a derivation should look.
type Range string

const (
	Range3Days   Range = "3days"
	Range7Days   Range = "7days"
	Range15Days  Range = "15days"
	Range1Month  Range = "1month"
	Range3Months Range = "3months"
	Range6Months Range = "6months"
	Range1Year   Range = "1year"
)

// Cutoff returns the earliest instant (inclusive) a transaction must carry to
// fall inside the range, relative to the supplied now. Days are subtracted as
// calendar days and months/years as calendar months/years, not fixed 30/365
// day approximations. Unrecognized tokens fall back to one month.
func Cutoff(now time.Time, r Range) time.Time {
	switch r {
	case Range3Days:
		return now.AddDate(0, 0, -3)
	case Range7Days:
		return now.AddDate(0, 0, -7)
	case Range15Days:
		return now.AddDate(0, 0, -15)
	case Range3Months:
		return now.AddDate(0, -3, 0)
	case Range6Months:
		return now.AddDate(0, -6, 0)
	case Range1Year:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// SinceCutoff returns the transactions dated on or after the cutoff. There is
// no upper bound. The input slice is left untouched.
func SinceCutoff(txns []core.Transaction, cutoff time.Time) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		if !t.Date.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// FilterRange combines Cutoff and SinceCutoff for the common case.
func FilterRange(txns []core.Transaction, now time.Time, r Range) []core.Transaction {
	return SinceCutoff(txns, Cutoff(now, r))
}
