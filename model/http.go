package model

type SessionResponse struct {
	SessionId      string  `json:"session_id"`
	BeatsPerMinute float64 `json:"beats_per_minute"`
	BeatsPerBar    int     `json:"beats_per_bar"`
	FrameRate      int     `json:"frame_rate"`
	NumBeats       int     `json:"num_beats"`
	WidthMin       int64   `json:"width_min"`
	WidthMax       int64   `json:"width_max"`
}

type BeatResponse struct {
	BeatNumber int64 `json:"beat_number"`
	Frame      int64 `json:"frame"`
	WindowMin  int64 `json:"window_min"`
	WindowMax  int64 `json:"window_max"`
	Inaccuracy int64 `json:"inaccuracy"`
}

type SkewResponse struct {
	Kind         string  `json:"kind"`
	DriftPerBeat float64 `json:"drift_per_beat"`
	MeanOffset   float64 `json:"mean_offset"`
	MissingBeats []int64 `json:"missing_beats,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
