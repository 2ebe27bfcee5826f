package model

// BeatRecord holds what is currently known about one absolute beat.
type BeatRecord struct {
	// Window is the set of frames this beat is believed to occur at.
	Window Interval
	// Inaccuracy is the window span at the time the record was last
	// touched. 0 only for beat 1, which is pinned to frame 0.
	Inaccuracy int64
}

// Observation records one reconciliation of a projected beat window
// against detected evidence. Kept for skew diagnostics.
type Observation struct {
	BeatNumber int64
	Projected  Interval
	Detected   Interval
	Window     Interval
}

// SessionDump is the full diagnostic state of one estimator session,
// written as a gob binary on shutdown.
type SessionDump struct {
	SessionId      string
	BeatsPerMinute float64
	BeatsPerBar    int
	FrameRate      int
	MaxBufferSize  int64
	Width          Interval
	Beats          []BeatRecord
	Observations   []Observation
}

// SessionReport is the end-of-session summary stored for history.
type SessionReport struct {
	SessionId      string
	BeatsPerMinute float64
	BeatsPerBar    int
	FrameRate      int
	NumBeats       int64
	WidthMin       int64
	WidthMax       int64
	SkewKind       string
}
