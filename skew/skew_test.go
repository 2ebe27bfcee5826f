package skew

import (
	"testing"

	"github.com/jsphweid/beatframe/model"
	"github.com/stretchr/testify/assert"
)

func obs(beat int64, projectedMid, detectedMid int64) model.Observation {
	return model.Observation{
		BeatNumber: beat,
		Projected:  model.Interval{Min: projectedMid - 128, Max: projectedMid + 128},
		Detected:   model.Interval{Min: detectedMid - 128, Max: detectedMid + 128},
		Window:     model.Interval{Min: detectedMid - 128, Max: detectedMid + 128},
	}
}

func TestClassifyEmpty(t *testing.T) {
	r := Classify(nil)
	assert.Equal(t, None, r.Kind)
}

func TestClassifyCleanSession(t *testing.T) {
	samples := []model.Observation{
		obs(2, 24000, 24000),
		obs(3, 48000, 48005),
		obs(4, 72000, 71995),
		obs(5, 96000, 96000),
	}
	r := Classify(samples)
	assert := assert.New(t)
	assert.Equal(None, r.Kind)
	assert.Empty(r.MissingBeats)
}

func TestClassifyPeriodic(t *testing.T) {
	// the transport flips beats consistently ~100 frames late
	samples := []model.Observation{
		obs(2, 24000, 24100),
		obs(3, 48000, 48104),
		obs(4, 72000, 72098),
		obs(5, 96000, 96100),
	}
	r := Classify(samples)
	assert := assert.New(t)
	assert.Equal(Periodic, r.Kind)
	assert.InDelta(100, r.MeanOffset, 5)
}

func TestClassifyLinear(t *testing.T) {
	// offset grows every beat: tempo mismatch
	samples := []model.Observation{
		obs(2, 24000, 24000),
		obs(3, 48000, 48040),
		obs(4, 72000, 72080),
		obs(5, 96000, 96120),
	}
	r := Classify(samples)
	assert := assert.New(t)
	assert.Equal(Linear, r.Kind)
	assert.InDelta(40, r.DriftPerBeat, 1)
}

func TestClassifyBar(t *testing.T) {
	// beat 4 was never observed directly
	samples := []model.Observation{
		obs(2, 24000, 24000),
		obs(3, 48000, 48000),
		obs(5, 96000, 96000),
	}
	r := Classify(samples)
	assert := assert.New(t)
	assert.Equal(Bar, r.Kind)
	assert.Equal([]int64{4}, r.MissingBeats)
}

func TestBarTakesPrecedenceOverLinear(t *testing.T) {
	samples := []model.Observation{
		obs(2, 24000, 24000),
		obs(3, 48000, 48040),
		obs(5, 96000, 96080),
		obs(6, 120000, 120120),
	}
	r := Classify(samples)
	assert.Equal(t, Bar, r.Kind)
}

func TestTooFewSamplesOnlyDetectsBar(t *testing.T) {
	samples := []model.Observation{
		obs(2, 24000, 24500),
		obs(4, 72000, 72500),
	}
	r := Classify(samples)
	assert := assert.New(t)
	assert.Equal(Bar, r.Kind)
	assert.Equal([]int64{3}, r.MissingBeats)

	r = Classify(samples[:1])
	assert.Equal(None, r.Kind)
}

func TestKindString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("none", None.String())
	assert.Equal("linear", Linear.String())
	assert.Equal("periodic", Periodic.String())
	assert.Equal("bar", Bar.String())
}
