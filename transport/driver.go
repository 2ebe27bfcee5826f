// Package transport adapts a per-cycle timebase feed to the estimator.
// The driver owns what the estimator must not: reposition detection,
// new-beat gating, and rejection of mid-session timebase changes.
package transport

import (
	"errors"
	"fmt"

	"github.com/jsphweid/beatframe/estimator"
	"github.com/jsphweid/beatframe/model"
)

// ErrUnsupportedChange means the transport changed tempo, meter, or
// sample rate mid-session. Estimation assumes fixed frames-per-beat, so
// the cycle is dropped and the error goes upward instead of silently
// corrupting the beat table.
var ErrUnsupportedChange = errors.New("tempo, meter, or sample-rate change mid-session is unsupported")

type Driver struct {
	est *estimator.Estimator

	beatsPerMinute float64
	beatsPerBar    int
	frameRate      int

	expectedNextFrame int64
	lastBeatNumber    int64

	// latched while the transport frame disagrees with the expected one,
	// so a reposition is signaled on its rising edge only
	discontinuous bool
}

func New(pos0 model.Position, maxBufferSize int64) (*Driver, error) {
	est, err := estimator.New(pos0, maxBufferSize)
	if err != nil {
		return nil, err
	}
	return &Driver{
		est:               est,
		beatsPerMinute:    pos0.BeatsPerMinute,
		beatsPerBar:       pos0.BeatsPerBar,
		frameRate:         pos0.FrameRate,
		expectedNextFrame: pos0.Frame,
		lastBeatNumber:    pos0.BeatNumber(),
	}, nil
}

// Process handles one cycle's position snapshot. It returns a message
// on the rising edge of a transport reposition (empty otherwise) and
// ErrUnsupportedChange if the timebase configuration drifted from the
// construction snapshot.
func (d *Driver) Process(pos model.Position, nframes int64) (string, error) {
	if pos.BeatsPerMinute != d.beatsPerMinute ||
		pos.BeatsPerBar != d.beatsPerBar ||
		pos.FrameRate != d.frameRate {
		return "", ErrUnsupportedChange
	}

	var msg string
	repositioned := pos.Frame != d.expectedNextFrame
	if repositioned {
		if !d.discontinuous {
			d.discontinuous = true
			msg = fmt.Sprintf("transport frame position moved, new frame: %v", pos.Frame)
		}
	} else {
		d.discontinuous = false
	}

	if pos.IsRolling {
		d.expectedNextFrame = pos.Frame + nframes
	} else {
		d.expectedNextFrame = pos.Frame
	}

	n := pos.BeatNumber()
	if n != d.lastBeatNumber && !repositioned {
		d.est.Observe(pos, nframes)
	}
	d.lastBeatNumber = n

	return msg, nil
}

// SetMaxBufferSize forwards a buffer-size change from the transport.
func (d *Driver) SetMaxBufferSize(n int64) {
	d.est.SetMaxBufferSize(n)
}

func (d *Driver) Estimator() *estimator.Estimator {
	return d.est
}
