// Package skew diagnoses systematic deviation between projected and
// observed beat frames from an estimator's observation history.
//
// Three signatures are recognized: linear (offsets drift steadily — the
// transport and estimator disagree about tempo), periodic (offsets stay
// at a roughly constant nonzero value — a fixed phase error), and bar
// (observed beat numbers skip — meter mismatch or a missed reposition).
// The thresholds are tuning decisions, not contract.
package skew

import (
	"math"

	"github.com/jsphweid/beatframe/model"
	"github.com/jsphweid/beatframe/util"
)

type Kind int

const (
	None Kind = iota
	Linear
	Periodic
	Bar
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Periodic:
		return "periodic"
	case Bar:
		return "bar"
	default:
		return "none"
	}
}

const (
	// minimum observations before drift or phase is trusted
	minSamples = 3
	// mean per-beat drift, in frames, that counts as linear skew
	driftThreshold = 1.0
	// mean midpoint offset, in frames, that counts as periodic skew
	offsetThreshold = 32.0
	// spread around the mean offset still considered "constant"
	offsetSpreadThreshold = 16.0
)

type Report struct {
	Kind Kind
	// DriftPerBeat is the mean change of the projected-vs-detected
	// offset per observed beat. Meaningful for Linear.
	DriftPerBeat float64
	// MeanOffset is the mean projected-vs-detected midpoint offset.
	// Meaningful for Periodic.
	MeanOffset float64
	// MissingBeats are beat numbers skipped between consecutive
	// observations. Non-empty implies Bar.
	MissingBeats []int64
}

// Classify inspects observations in recorded order. Precedence when
// several signatures appear: Bar, then Linear, then Periodic.
func Classify(obs []model.Observation) Report {
	var r Report
	if len(obs) == 0 {
		return r
	}

	for i := 1; i < len(obs); i++ {
		prev, curr := obs[i-1].BeatNumber, obs[i].BeatNumber
		for missing := prev + 1; missing < curr; missing++ {
			r.MissingBeats = append(r.MissingBeats, missing)
		}
	}

	offsets := make([]float64, len(obs))
	for i, o := range obs {
		offsets[i] = float64(o.Detected.Midpoint() - o.Projected.Midpoint())
	}
	r.MeanOffset = mean(offsets)

	if len(obs) >= minSamples {
		diffs := make([]float64, 0, len(offsets)-1)
		for i := 1; i < len(offsets); i++ {
			diffs = append(diffs, offsets[i]-offsets[i-1])
		}
		r.DriftPerBeat = mean(diffs)

		if len(r.MissingBeats) > 0 {
			r.Kind = Bar
			return r
		}
		if monotone(diffs) && math.Abs(r.DriftPerBeat) > driftThreshold {
			r.Kind = Linear
			return r
		}
		if math.Abs(r.MeanOffset) > offsetThreshold && spread(offsets) < offsetSpreadThreshold {
			r.Kind = Periodic
			return r
		}
		return r
	}

	if len(r.MissingBeats) > 0 {
		r.Kind = Bar
	}
	return r
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// spread is the mean absolute deviation from the mean.
func spread(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var total float64
	for _, x := range xs {
		total += math.Abs(x - m)
	}
	return total / float64(len(xs))
}

// monotone reports whether all values share one sign (all >= 0 or all
// <= 0) with at least one strictly nonzero.
func monotone(xs []float64) bool {
	var pos, neg, nonzero int
	for _, x := range xs {
		if x > 0 {
			pos++
			nonzero++
		}
		if x < 0 {
			neg++
			nonzero++
		}
	}
	if nonzero == 0 {
		return false
	}
	return util.Min(pos, neg) == 0
}
