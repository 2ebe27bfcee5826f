package model

// Position is one per-cycle snapshot from a timebase transport.
type Position struct {
	Bar            int
	Beat           int
	BeatsPerBar    int
	BeatsPerMinute float64
	FrameRate      int
	Frame          int64
	IsRolling      bool
}

// BeatNumber folds bar and beat into a 1-based absolute beat index.
func (p Position) BeatNumber() int64 {
	return int64(p.Bar-1)*int64(p.BeatsPerBar) + int64(p.Beat)
}
