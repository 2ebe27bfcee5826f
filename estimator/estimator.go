// Package estimator forecasts the exact frame of musical beats from a
// timebase transport that reports position once per processing cycle.
//
// The transport can only say that a beat landed somewhere inside the
// current cycle, so everything here is interval arithmetic: a global
// beat width (plausible frame-durations of one beat) and a per-beat
// window (plausible frames the beat occurs at), both of which only ever
// narrow as evidence arrives. Beat 1 is pinned to frame 0 with zero
// uncertainty; every other window is derived from its predecessor plus
// the beat width and reconciled against detected cycles.
package estimator

import (
	"fmt"
	"sync"

	"github.com/jsphweid/beatframe/model"
	"github.com/jsphweid/beatframe/util"
)

type Estimator struct {
	mu sync.Mutex

	// width is the global beat-width interval in frames. Seeded from the
	// nominal tempo widened by half the max buffer size per side, then
	// narrowed by observations.
	width model.Interval

	// beats[i] is the record for absolute beat i+1. Grown by append,
	// never shrunk; entries are refined in place.
	beats []model.BeatRecord

	maxBufferSize  int64
	beatsPerMinute float64
	beatsPerBar    int
	frameRate      int
	sessionId      string

	observations []model.Observation
}

// New builds an estimator for one transport session. pos0 is the
// position at construction time; maxBufferSize is the largest number of
// frames that may elapse between two consecutive Observe calls.
func New(pos0 model.Position, maxBufferSize int64) (*Estimator, error) {
	if pos0.BeatsPerMinute <= 0 {
		return nil, fmt.Errorf("beats per minute must be positive, got %v", pos0.BeatsPerMinute)
	}
	if pos0.FrameRate <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %v", pos0.FrameRate)
	}
	if pos0.BeatsPerBar <= 0 {
		return nil, fmt.Errorf("beats per bar must be positive, got %v", pos0.BeatsPerBar)
	}

	fpb := int64(float64(pos0.FrameRate) * 60 / pos0.BeatsPerMinute)
	e := &Estimator{
		width: model.Interval{
			Min: fpb - maxBufferSize/2,
			Max: fpb + maxBufferSize/2,
		},
		beats:          make([]model.BeatRecord, 1, 64),
		maxBufferSize:  maxBufferSize,
		beatsPerMinute: pos0.BeatsPerMinute,
		beatsPerBar:    pos0.BeatsPerBar,
		frameRate:      pos0.FrameRate,
	}
	// beat 1 is axiomatic: frame 0, zero inaccuracy
	e.beats[0] = model.BeatRecord{}

	// register whatever beat the transport happens to start on
	e.Observe(pos0, 0)
	return e, nil
}

// SetSessionId tags the session for dumps and reports.
func (e *Estimator) SetSessionId(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessionId = id
}

// SetMaxBufferSize updates the worst-case cycle size. It only affects
// detected windows of later zero-nframes observations; already-recorded
// windows and the current width are untouched.
func (e *Estimator) SetMaxBufferSize(n int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxBufferSize = n
}

// Observe registers an actually-occurring beat. The caller must only
// invoke it when the transport reported a new beat value this cycle and
// no reposition was detected. nframes is the size of the current cycle;
// nframes <= 0 means the cycle size is unknown and the max buffer size
// bounds the detected window instead.
func (e *Estimator) Observe(pos model.Position, nframes int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := pos.BeatNumber()
	if n <= 1 {
		// beat 1 is axiomatic and never overwritten
		return
	}
	if nframes <= 0 {
		nframes = e.maxBufferSize
	}

	// the beat occurred somewhere in [frame, frame+nframes)
	dmin := pos.Frame
	dmax := pos.Frame + nframes

	// projecting guarantees this beat and all lower ones have records
	e.predict(n)
	rec := &e.beats[n-1]
	prev := e.beats[n-2].Window
	projected := rec.Window
	pmin, pmax := projected.Min, projected.Max

	newMin, newMax := pmin, pmax
	switch {
	case pmin > dmin && pmax < dmax:
		// projection already tighter than the detected cycle
	case pmin < dmin && pmax <= dmax:
		newMin = dmin
		e.width.Min = dmin - prev.Max
	case pmin >= dmin && pmax > dmax:
		newMax = dmax
		e.width.Max = dmax - prev.Min
	case pmin <= dmin && pmax >= dmax:
		newMin, newMax = dmin, dmax
		e.width.Min = dmin - prev.Max
		e.width.Max = dmax - prev.Min
	}

	// A projection that misses the detected cycle entirely snaps the
	// corresponding bound to the evidence. Both checks run after the
	// block above and may each override one bound.
	if pmin > dmax {
		newMin = dmin
		e.width.Min = dmin - prev.Min
	}
	if pmax < dmin {
		newMax = dmax
		e.width.Max = dmax - prev.Max
	}

	rec.Window = model.Interval{Min: newMin, Max: newMax}
	rec.Inaccuracy = newMax - newMin

	e.observations = append(e.observations, model.Observation{
		BeatNumber: n,
		Projected:  projected,
		Detected:   model.Interval{Min: dmin, Max: dmax},
		Window:     rec.Window,
	})
}

// Predict returns the forecast frame of the given beat as the midpoint
// of its window, synthesizing any missing records on the way. The
// second return is false for beat numbers < 1.
func (e *Estimator) Predict(beatNumber int64) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.predict(beatNumber)
}

func (e *Estimator) predict(beatNumber int64) (int64, bool) {
	if beatNumber <= 0 {
		return 0, false
	}
	if beatNumber <= int64(len(e.beats)) {
		e.refine(beatNumber)
		return e.beats[beatNumber-1].Window.Midpoint(), true
	}
	// fill forward iteratively; each missing beat is the previous
	// window shifted by the current width
	for int64(len(e.beats)) < beatNumber {
		prev := e.beats[len(e.beats)-1].Window
		e.beats = append(e.beats, model.BeatRecord{
			Window:     prev.Shift(e.width),
			Inaccuracy: e.width.Span(),
		})
	}
	return e.beats[beatNumber-1].Window.Midpoint(), true
}

// refine back-propagates a narrowed width to beats 2..upTo: any record
// whose inaccuracy is worse than the current width span is recomputed
// from its predecessor and intersected with what was already known.
// The current global width is reused for all historical beats, not each
// beat's contemporaneous width.
func (e *Estimator) refine(upTo int64) {
	span := e.width.Span()
	upTo = util.Min(upTo, int64(len(e.beats)))
	for i := int64(2); i <= upTo; i++ {
		rec := &e.beats[i-1]
		if rec.Inaccuracy <= span {
			continue
		}
		computed := e.beats[i-2].Window.Shift(e.width)
		rec.Window.Min = util.Max(rec.Window.Min, computed.Min)
		rec.Window.Max = util.Min(rec.Window.Max, computed.Max)
		rec.Inaccuracy = span
	}
}

// Width returns the current global beat-width interval.
func (e *Estimator) Width() model.Interval {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width
}

// Beats returns a copy of the beat table, index i holding beat i+1.
func (e *Estimator) Beats() []model.BeatRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	beats := make([]model.BeatRecord, len(e.beats))
	copy(beats, e.beats)
	return beats
}

// Observations returns a copy of the recorded reconciliations, in the
// order they happened. This is the raw material for skew diagnosis.
func (e *Estimator) Observations() []model.Observation {
	e.mu.Lock()
	defer e.mu.Unlock()
	obs := make([]model.Observation, len(e.observations))
	copy(obs, e.observations)
	return obs
}

// Dump snapshots the full session state for diagnostics.
func (e *Estimator) Dump() model.SessionDump {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := model.SessionDump{
		SessionId:      e.sessionId,
		BeatsPerMinute: e.beatsPerMinute,
		BeatsPerBar:    e.beatsPerBar,
		FrameRate:      e.frameRate,
		MaxBufferSize:  e.maxBufferSize,
		Width:          e.width,
		Beats:          make([]model.BeatRecord, len(e.beats)),
		Observations:   make([]model.Observation, len(e.observations)),
	}
	copy(d.Beats, e.beats)
	copy(d.Observations, e.observations)
	return d
}
