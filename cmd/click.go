package cmd

import (
	"fmt"
	"time"

	"github.com/jsphweid/beatframe/constants"
	"github.com/jsphweid/beatframe/transport"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	clickPort  int
	clickBpm   float64
	clickMeter int
	clickBeats int
	clickKey   uint8
)

func init() {
	clickCmd.Flags().IntVar(&clickPort, "port", 0, "MIDI output port number")
	clickCmd.Flags().Float64Var(&clickBpm, "bpm", constants.DefaultBeatsPerMinute, "tempo in beats per minute")
	clickCmd.Flags().IntVar(&clickMeter, "meter", constants.DefaultBeatsPerBar, "beats per bar")
	clickCmd.Flags().IntVar(&clickBeats, "beats", 16, "number of beats to click")
	clickCmd.Flags().Uint8Var(&clickKey, "key", 76, "MIDI key for the click (default hi wood block)")
	rootCmd.AddCommand(clickCmd)
}

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Sends MIDI clicks on predicted beats",
	Long:  `Sends MIDI clicks on predicted beats`,
	Run: func(cmd *cobra.Command, args []string) {
		click()
	},
}

// click plays the role of the sample-player consumer: it asks for the
// next beat's frame ahead of time and fires exactly when the transport
// reaches it.
func click() {
	defer midi.CloseDriver()

	out, err := midi.OutPort(clickPort)
	if err != nil {
		fmt.Println("can't find MIDI out port")
		return
	}
	send, err := midi.SendTo(out)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}

	rate := constants.DefaultFrameRate
	bufferSize := int64(constants.DefaultBufferSize)
	master := transport.NewMaster(transport.MasterConfig{
		BeatsPerBar:    clickMeter,
		BeatsPerMinute: clickBpm,
		FrameRate:      rate,
		BufferSize:     bufferSize,
	})
	driver, err := transport.New(master.Position(), bufferSize)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}
	est := driver.Estimator()

	cycle := time.Duration(float64(bufferSize) / float64(rate) * float64(time.Second))
	nextBeat := int64(2)
	for nextBeat <= int64(clickBeats) {
		pos := master.Tick()
		if _, err := driver.Process(pos, bufferSize); err != nil {
			fmt.Printf("ERROR: %s\n", err)
			return
		}

		// fire when the forecast frame lands inside the upcoming cycle
		frame, _ := est.Predict(nextBeat)
		if frame < pos.Frame+bufferSize {
			send(midi.NoteOn(9, clickKey, 100))
			send(midi.NoteOff(9, clickKey))
			nextBeat++
		}
		time.Sleep(cycle)
	}
}
