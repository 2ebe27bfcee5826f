package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/jsphweid/beatframe/constants"
	"github.com/jsphweid/beatframe/model"
	"github.com/jsphweid/beatframe/transport"
	"github.com/jsphweid/beatframe/util"
	"github.com/spf13/cobra"
)

var (
	simBpm        float64
	simRate       int
	simMeter      int
	simBuffer     int64
	simBeats      int
	simJitter     int64
	simSeed       int64
	simReposition int64
)

func init() {
	simulateCmd.Flags().Float64Var(&simBpm, "bpm", constants.DefaultBeatsPerMinute, "tempo in beats per minute")
	simulateCmd.Flags().IntVar(&simRate, "rate", constants.DefaultFrameRate, "frame rate in Hz")
	simulateCmd.Flags().IntVar(&simMeter, "meter", constants.DefaultBeatsPerBar, "beats per bar")
	simulateCmd.Flags().Int64Var(&simBuffer, "buffer", constants.DefaultBufferSize, "cycle buffer size in frames")
	simulateCmd.Flags().IntVar(&simBeats, "beats", 32, "number of beats to observe")
	simulateCmd.Flags().Int64Var(&simJitter, "jitter", 0, "max per-beat jitter in frames")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "jitter seed")
	simulateCmd.Flags().Int64Var(&simReposition, "reposition-after", 0, "reposition to frame 0 after this many beats (0 = never)")
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Runs an estimator session against a simulated timebase master",
	Long:  `Runs an estimator session against a simulated timebase master and dumps the beat table`,
	Run: func(cmd *cobra.Command, args []string) {
		path := Simulate(SimulateConfig{
			BeatsPerMinute:  simBpm,
			FrameRate:       simRate,
			BeatsPerBar:     simMeter,
			BufferSize:      simBuffer,
			Beats:           simBeats,
			JitterFrames:    simJitter,
			Seed:            simSeed,
			RepositionAfter: simReposition,
			Verbose:         true,
		})
		fmt.Printf("Wrote session dump: %v\n", path)
	},
}

type SimulateConfig struct {
	BeatsPerMinute  float64
	FrameRate       int
	BeatsPerBar     int
	BufferSize      int64
	Beats           int
	JitterFrames    int64
	Seed            int64
	RepositionAfter int64
	Verbose         bool
}

// Simulate drives a full session and returns the path of the gob dump
// it wrote. Exported so the e2e test can produce a dump to serve.
func Simulate(cfg SimulateConfig) string {
	master := transport.NewMaster(transport.MasterConfig{
		BeatsPerBar:    cfg.BeatsPerBar,
		BeatsPerMinute: cfg.BeatsPerMinute,
		FrameRate:      cfg.FrameRate,
		BufferSize:     cfg.BufferSize,
		JitterFrames:   cfg.JitterFrames,
		Seed:           cfg.Seed,
	})

	driver, err := transport.New(master.Position(), cfg.BufferSize)
	if err != nil {
		panic("Could not start session: " + err.Error())
	}
	est := driver.Estimator()
	est.SetSessionId(uuid.New().String())

	util.EnsureOutDir(constants.GetOutDir())
	dumpPath := filepath.Join(constants.GetOutDir(), est.Dump().SessionId+".dat")

	// coalesce mid-session snapshot writes; the final dump below is
	// written unconditionally
	debounced := debounce.New(250 * time.Millisecond)
	writeSnapshot := func() {
		util.CreateBinary(dumpPath, est.Dump())
	}

	observed := 0
	repositioned := false
	// bail out eventually even if jitter keeps a beat out of reach
	maxCycles := (cfg.Beats + 2) * int(float64(cfg.FrameRate)*60/cfg.BeatsPerMinute/float64(cfg.BufferSize)+2)
	for cycle := 0; observed < cfg.Beats && cycle < maxCycles; cycle++ {
		pos := master.Tick()
		msg, err := driver.Process(pos, cfg.BufferSize)
		if err != nil {
			panic("Session aborted: " + err.Error())
		}
		if msg != "" && cfg.Verbose {
			fmt.Println(msg)
		}

		obs := est.Observations()
		if len(obs) > observed {
			observed = len(obs)
			debounced(writeSnapshot)
			if cfg.Verbose {
				last := obs[len(obs)-1]
				next, _ := est.Predict(last.BeatNumber + 1)
				fmt.Printf("beat %v in [%v, %v], next expected near frame %v, width [%v, %v]\n",
					last.BeatNumber, last.Window.Min, last.Window.Max, next, est.Width().Min, est.Width().Max)
			}
		}

		if cfg.RepositionAfter > 0 && !repositioned && int64(observed) >= cfg.RepositionAfter {
			master.Reposition(0, 1, 1)
			repositioned = true
		}
	}

	util.CreateBinary(dumpPath, est.Dump())
	return dumpPath
}

func printDump(d model.SessionDump) {
	fmt.Printf("session: %v\n", d.SessionId)
	fmt.Printf("tempo: %v bpm, meter: %v/4, rate: %v Hz\n", d.BeatsPerMinute, d.BeatsPerBar, d.FrameRate)
	fmt.Printf("beat width: [%v, %v]\n", d.Width.Min, d.Width.Max)
	for i, b := range d.Beats {
		fmt.Printf("beat %v: frame %v, window [%v, %v], inaccuracy %v\n",
			i+1, b.Window.Midpoint(), b.Window.Min, b.Window.Max, b.Inaccuracy)
	}
}
