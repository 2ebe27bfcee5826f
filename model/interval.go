package model

// Interval is a closed range of frames, Min <= Max.
type Interval struct {
	Min int64
	Max int64
}

func (iv Interval) Span() int64 {
	return iv.Max - iv.Min
}

// Midpoint is (Min+Max)/2 with integer division. Midpoints are computed
// this way everywhere; no other averaging is used.
func (iv Interval) Midpoint() int64 {
	return (iv.Min + iv.Max) / 2
}

// Shift adds another interval component-wise, e.g. a beat window shifted
// by one beat width.
func (iv Interval) Shift(by Interval) Interval {
	return Interval{Min: iv.Min + by.Min, Max: iv.Max + by.Max}
}

func (iv Interval) Contains(frame int64) bool {
	return frame >= iv.Min && frame <= iv.Max
}
