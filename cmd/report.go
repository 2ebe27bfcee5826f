package cmd

import (
	"fmt"

	"github.com/jsphweid/beatframe/db"
	"github.com/jsphweid/beatframe/model"
	"github.com/jsphweid/beatframe/skew"
	"github.com/jsphweid/beatframe/util"
	"github.com/spf13/cobra"
)

var reportStore bool

func init() {
	reportCmd.Flags().BoolVar(&reportStore, "store", false, "store the report in DynamoDB")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a skew report from a session dump",
	Long:  `Creates a skew report from a session dump`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		report(args[0])
	},
}

func report(path string) {
	d := util.ReadBinaryOrPanic[model.SessionDump](path)
	r := skew.Classify(d.Observations)

	fmt.Printf("session: %v\n", d.SessionId)
	fmt.Printf("observations: %v\n", len(d.Observations))
	fmt.Printf("final beat width: [%v, %v]\n", d.Width.Min, d.Width.Max)
	fmt.Printf("skew: %v\n", r.Kind)
	fmt.Printf("drift per beat: %v frames\n", r.DriftPerBeat)
	fmt.Printf("mean offset: %v frames\n", r.MeanOffset)
	if len(r.MissingBeats) > 0 {
		fmt.Printf("beats never observed directly: %v\n", r.MissingBeats)
	}

	if reportStore {
		db.PutSessionReport(model.SessionReport{
			SessionId:      d.SessionId,
			BeatsPerMinute: d.BeatsPerMinute,
			BeatsPerBar:    d.BeatsPerBar,
			FrameRate:      d.FrameRate,
			NumBeats:       int64(len(d.Beats)),
			WidthMin:       d.Width.Min,
			WidthMax:       d.Width.Max,
			SkewKind:       r.Kind.String(),
		})
		fmt.Println("Stored session report")
	}
}
