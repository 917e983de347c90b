package analytics

// PieSlice carries the angular range of one donut wedge in degrees.
type PieSlice struct {
	Label         string  `json:"label"`
	AmountCents   int64   `json:"amount_cents"`
	Percentage    float64 `json:"percentage"`
	StartAngleDeg float64 `json:"start_angle_deg"`
	EndAngleDeg   float64 `json:"end_angle_deg"`
}

// PieSlices converts a breakdown into contiguous arc geometry: the first
// slice starts at 0 and each slice begins where the previous one ends,
// sweeping percentage/100 * 360 degrees. When the percentages sum to less
// than 100 (a truncated breakdown) the remaining arc is simply left undrawn;
// no filler slice is synthesized.
func PieSlices(rows []CategoryTotal) []PieSlice {
	slices := make([]PieSlice, 0, len(rows))
	var cumulative float64
	for _, r := range rows {
		start := cumulative / 100 * 360
		cumulative += r.Percentage
		end := cumulative / 100 * 360
		slices = append(slices, PieSlice{
			Label:         r.Label,
			AmountCents:   r.AmountCents,
			Percentage:    r.Percentage,
			StartAngleDeg: start,
			EndAngleDeg:   end,
		})
	}
	return slices
}
