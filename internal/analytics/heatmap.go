package analytics

import (
	"fmt"
	"strconv"

	"fintrack/internal/core"
)

// HeatmapMode selects the slot axis for spending-pattern heatmaps.
type HeatmapMode string

const (
	ByDayOfWeek HeatmapMode = "dayOfWeek"
	ByHourOfDay HeatmapMode = "hourOfDay"
)

// HeatmapSlot is one cell of the heatmap. Index is the stable ordering key
// (0=Sunday..6 or 0..23); Label is presentation only.
type HeatmapSlot struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	ValueCents int64  `json:"value_cents"`
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Heatmap buckets expense magnitude into 7 weekday slots or 24 hour-of-day
// slots. Every slot is present even when zero. Only strictly negative amounts
// accumulate; income and zero-dated records are ignored. The second return
// value is the largest slot value, 0 when all slots are empty; callers
// derive intensity as value/max and must treat max 0 as intensity 0.
func Heatmap(txns []core.Transaction, mode HeatmapMode) ([]HeatmapSlot, int64, error) {
	var slots []HeatmapSlot
	switch mode {
	case ByDayOfWeek:
		slots = make([]HeatmapSlot, 7)
		for i := range slots {
			slots[i] = HeatmapSlot{Index: i, Label: dayNames[i]}
		}
	case ByHourOfDay:
		slots = make([]HeatmapSlot, 24)
		for i := range slots {
			slots[i] = HeatmapSlot{Index: i, Label: hourLabel(i)}
		}
	default:
		return nil, 0, fmt.Errorf("unknown heatmap mode %q", mode)
	}

	for _, t := range txns {
		if t.Date.IsZero() || !t.IsExpense() {
			continue
		}
		idx := int(t.Date.Weekday())
		if mode == ByHourOfDay {
			idx = t.Date.Hour()
		}
		slots[idx].ValueCents += t.Amount.Abs()
	}

	var max int64
	for _, s := range slots {
		if s.ValueCents > max {
			max = s.ValueCents
		}
	}
	return slots, max, nil
}

// hourLabel renders 0..23 as "12:00am", "1:00am" .. "11:00pm".
func hourLabel(hour int) string {
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return strconv.Itoa(h) + ":00" + suffix
}
