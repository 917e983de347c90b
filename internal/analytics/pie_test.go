package analytics

import (
	"math"
	"testing"
)

func TestPieSlicesAngles(t *testing.T) {
	rows := []CategoryTotal{
		{Label: "Food", AmountCents: 15000, Percentage: 75},
		{Label: "Transport", AmountCents: 5000, Percentage: 25},
	}

	slices := PieSlices(rows)
	if len(slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices))
	}
	if slices[0].StartAngleDeg != 0 || slices[0].EndAngleDeg != 270 {
		t.Errorf("first slice = [%v, %v], want [0, 270]", slices[0].StartAngleDeg, slices[0].EndAngleDeg)
	}
	if slices[1].StartAngleDeg != 270 || slices[1].EndAngleDeg != 360 {
		t.Errorf("second slice = [%v, %v], want [270, 360]", slices[1].StartAngleDeg, slices[1].EndAngleDeg)
	}
}

func TestPieSlicesContiguous(t *testing.T) {
	rows := []CategoryTotal{
		{Label: "a", Percentage: 33.3},
		{Label: "b", Percentage: 33.3},
		{Label: "c", Percentage: 33.4},
	}
	slices := PieSlices(rows)
	for i := 1; i < len(slices); i++ {
		if math.Abs(slices[i].StartAngleDeg-slices[i-1].EndAngleDeg) > 1e-9 {
			t.Errorf("slice %d start %v does not meet previous end %v", i, slices[i].StartAngleDeg, slices[i-1].EndAngleDeg)
		}
	}
	last := slices[len(slices)-1]
	if math.Abs(last.EndAngleDeg-360) > 1e-9 {
		t.Errorf("full circle must end at 360, got %v", last.EndAngleDeg)
	}
}

func TestPieSlicesPartialCoverage(t *testing.T) {
	// Percentages below 100 leave the remaining arc undrawn.
	rows := []CategoryTotal{{Label: "a", Percentage: 50}}
	slices := PieSlices(rows)
	if slices[0].EndAngleDeg != 180 {
		t.Errorf("end = %v, want 180", slices[0].EndAngleDeg)
	}
}

func TestPieSlicesEmpty(t *testing.T) {
	if got := PieSlices(nil); len(got) != 0 {
		t.Fatalf("expected no slices, got %d", len(got))
	}
}
