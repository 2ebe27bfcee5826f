package cmd

import (
	"github.com/jsphweid/beatframe/model"
	"github.com/jsphweid/beatframe/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspects a session dump",
	Long:  `Inspects a session dump`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func inspect(path string) {
	d := util.ReadBinaryOrPanic[model.SessionDump](path)
	printDump(d)
}
