package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestHeatmapByDayOfWeek(t *testing.T) {
	// 2024-06-02 is a Sunday. A single -40.00 expense lands in slot 0.
	txns := []core.Transaction{
		tx(date(2024, time.June, 2), -4000, ""),
		tx(date(2024, time.June, 3), 10000, ""), // Monday income, ignored
	}

	slots, max, err := Heatmap(txns, ByDayOfWeek)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 7 {
		t.Fatalf("expected 7 slots, got %d", len(slots))
	}
	if slots[0].Label != "Sunday" || slots[0].ValueCents != 4000 {
		t.Errorf("slot 0 = %+v, want Sunday 4000", slots[0])
	}
	for i := 1; i < 7; i++ {
		if slots[i].ValueCents != 0 {
			t.Errorf("slot %d = %d, want 0", i, slots[i].ValueCents)
		}
	}
	if max != 4000 {
		t.Errorf("max = %d, want 4000", max)
	}
}

func TestHeatmapByHourOfDay(t *testing.T) {
	txns := []core.Transaction{
		{Date: time.Date(2024, time.June, 2, 0, 15, 0, 0, time.UTC), Amount: core.Money{Cents: -100}},
		{Date: time.Date(2024, time.June, 2, 13, 30, 0, 0, time.UTC), Amount: core.Money{Cents: -250}},
		{Date: time.Date(2024, time.June, 3, 13, 5, 0, 0, time.UTC), Amount: core.Money{Cents: -250}},
	}

	slots, max, err := Heatmap(txns, ByHourOfDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(slots))
	}
	if slots[0].ValueCents != 100 {
		t.Errorf("midnight slot = %d, want 100", slots[0].ValueCents)
	}
	if slots[13].ValueCents != 500 {
		t.Errorf("13:00 slot = %d, want 500", slots[13].ValueCents)
	}
	if max != 500 {
		t.Errorf("max = %d, want 500", max)
	}
}

func TestHeatmapLabels(t *testing.T) {
	slots, _, err := Heatmap(nil, ByHourOfDay)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[int]string{
		0:  "12:00am",
		1:  "1:00am",
		11: "11:00am",
		12: "12:00pm",
		13: "1:00pm",
		23: "11:00pm",
	}
	for i, want := range cases {
		if slots[i].Label != want {
			t.Errorf("slot %d label = %q, want %q", i, slots[i].Label, want)
		}
	}

	days, _, err := Heatmap(nil, ByDayOfWeek)
	if err != nil {
		t.Fatal(err)
	}
	if days[0].Label != "Sunday" || days[6].Label != "Saturday" {
		t.Errorf("day labels = %q..%q, want Sunday..Saturday", days[0].Label, days[6].Label)
	}
}

func TestHeatmapAllSlotsPresentWhenEmpty(t *testing.T) {
	slots, max, err := Heatmap(nil, ByDayOfWeek)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 7 || max != 0 {
		t.Fatalf("empty input must still yield all slots, got %d slots max %d", len(slots), max)
	}
	for i, s := range slots {
		if s.Index != i || s.ValueCents != 0 {
			t.Errorf("slot %d = %+v", i, s)
		}
	}
}

func TestHeatmapIgnoresIncomeAndZero(t *testing.T) {
	txns := []core.Transaction{
		tx(date(2024, time.June, 2), 5000, ""),
		tx(date(2024, time.June, 2), 0, ""),
	}
	slots, max, err := Heatmap(txns, ByDayOfWeek)
	if err != nil {
		t.Fatal(err)
	}
	if max != 0 {
		t.Errorf("income and zero amounts must not accumulate, max = %d", max)
	}
	if slots[0].ValueCents != 0 {
		t.Errorf("slot 0 = %d, want 0", slots[0].ValueCents)
	}
}

func TestHeatmapUnknownMode(t *testing.T) {
	if _, _, err := Heatmap(nil, HeatmapMode("minute")); err == nil {
		t.Fatal("unknown mode must return an error")
	}
}
