package transport

import (
	"math/rand"

	"github.com/jsphweid/beatframe/model"
)

// MasterConfig configures a simulated timebase master.
type MasterConfig struct {
	BeatsPerBar    int
	BeatsPerMinute float64
	FrameRate      int
	BufferSize     int64
	// JitterFrames shifts each beat boundary off the nominal grid by a
	// uniform random amount in [-JitterFrames, JitterFrames]. Phase
	// jitter only; it never accumulates into tempo drift.
	JitterFrames int64
	Seed         int64
}

// Master is a simulated timebase master: it advances a transport one
// cycle at a time and increments bar/beat whenever the cycle contains
// the next beat boundary. Boundaries sit on a fixed frames-per-beat
// grid, optionally jittered per beat.
type Master struct {
	cfg           MasterConfig
	rng           *rand.Rand
	framesPerBeat int64

	bar  int
	beat int
	// crossed counts beat boundaries passed on the current timeline;
	// the next boundary is anchor + (crossed+1)*framesPerBeat + jitter
	crossed       int64
	anchor        int64
	frame         int64
	nextBeatFrame int64
	rolling       bool
	started       bool
}

func NewMaster(cfg MasterConfig) *Master {
	fpb := int64(float64(cfg.FrameRate) * 60 / cfg.BeatsPerMinute)
	m := &Master{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		framesPerBeat: fpb,
		bar:           1,
		beat:          1,
		rolling:       true,
	}
	m.nextBeatFrame = fpb + m.jitter()
	return m
}

func (m *Master) jitter() int64 {
	if m.cfg.JitterFrames <= 0 {
		return 0
	}
	return m.rng.Int63n(2*m.cfg.JitterFrames+1) - m.cfg.JitterFrames
}

// Position reports the snapshot for the current cycle.
func (m *Master) Position() model.Position {
	return model.Position{
		Bar:            m.bar,
		Beat:           m.beat,
		BeatsPerBar:    m.cfg.BeatsPerBar,
		BeatsPerMinute: m.cfg.BeatsPerMinute,
		FrameRate:      m.cfg.FrameRate,
		Frame:          m.frame,
		IsRolling:      m.rolling,
	}
}

// Tick advances the transport by one cycle and returns the new
// snapshot. The first Tick re-reports the construction cycle, the way a
// transport queried at client setup reports the same cycle the first
// process callback sees. The reported beat is the one whose boundary
// falls inside the new cycle, so a driver sees the beat change during
// the cycle the beat actually occurs in.
func (m *Master) Tick() model.Position {
	if m.rolling && m.started {
		m.frame += m.cfg.BufferSize
	}
	m.started = true
	for m.rolling && m.nextBeatFrame < m.frame+m.cfg.BufferSize {
		if m.beat == m.cfg.BeatsPerBar {
			m.beat = 1
			m.bar++
		} else {
			m.beat++
		}
		m.crossed++
		m.nextBeatFrame = m.anchor + (m.crossed+1)*m.framesPerBeat + m.jitter()
	}
	return m.Position()
}

// Reposition jumps the transport, breaking frame continuity the way a
// seek or loop does. The beat grid re-anchors at the new location.
func (m *Master) Reposition(frame int64, bar, beat int) {
	m.frame = frame
	m.bar = bar
	m.beat = beat
	m.crossed = 0
	m.anchor = frame
	m.nextBeatFrame = frame + m.framesPerBeat + m.jitter()
}

// SetRolling starts or stops the transport.
func (m *Master) SetRolling(rolling bool) {
	m.rolling = rolling
}
