//go:build e2e
// +build e2e

package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jsphweid/beatframe/cmd"
	"github.com/jsphweid/beatframe/model"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	path := cmd.Simulate(cmd.SimulateConfig{
		BeatsPerMinute: 120,
		FrameRate:      48000,
		BeatsPerBar:    4,
		BufferSize:     1024,
		Beats:          8,
	})
	cmd.LoadDump(path)

	exitVal := m.Run()

	os.Exit(exitVal)
}

func TestSessionEndpointE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	w := httptest.NewRecorder()
	cmd.HandleSession(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(resp.StatusCode, 200)

	var session model.SessionResponse
	err := json.Unmarshal(respBody, &session)
	if err != nil {
		panic(err.Error())
	}

	assert.NotEmpty(session.SessionId)
	assert.Equal(float64(120), session.BeatsPerMinute)
	assert.Equal(4, session.BeatsPerBar)
	assert.Equal(48000, session.FrameRate)
	assert.GreaterOrEqual(session.NumBeats, 8)
	assert.LessOrEqual(session.WidthMin, int64(24000))
	assert.GreaterOrEqual(session.WidthMax, int64(24000))
}

func TestBeatEndpointE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/beats/2", nil)
	req = mux.SetURLVars(req, map[string]string{"beatNumber": "2"})
	w := httptest.NewRecorder()
	cmd.HandleBeat(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(resp.StatusCode, 200)

	var beat model.BeatResponse
	err := json.Unmarshal(respBody, &beat)
	if err != nil {
		panic(err.Error())
	}

	assert.Equal(int64(2), beat.BeatNumber)
	// the session ran without jitter, so beat 2 sits on the 24000 grid
	assert.LessOrEqual(beat.WindowMin, int64(24000))
	assert.GreaterOrEqual(beat.WindowMax, int64(24000))
	assert.InDelta(24000, float64(beat.Frame), 512)
}

func TestBeatEndpointRejectsBadNumbersE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/beats/zero", nil)
	req = mux.SetURLVars(req, map[string]string{"beatNumber": "zero"})
	w := httptest.NewRecorder()
	cmd.HandleBeat(w, req)
	assert.Equal(t, w.Result().StatusCode, 400)

	req = httptest.NewRequest(http.MethodGet, "/beats/100000", nil)
	req = mux.SetURLVars(req, map[string]string{"beatNumber": "100000"})
	w = httptest.NewRecorder()
	cmd.HandleBeat(w, req)
	assert.Equal(t, w.Result().StatusCode, 404)
}

func TestSkewEndpointE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/skew", nil)
	w := httptest.NewRecorder()
	cmd.HandleSkew(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(resp.StatusCode, 200)

	var skewRes model.SkewResponse
	err := json.Unmarshal(respBody, &skewRes)
	if err != nil {
		panic(err.Error())
	}

	// a clean on-grid session shows no skew signature
	assert.Equal("none", skewRes.Kind)
	assert.Empty(skewRes.MissingBeats)
}
