package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "beatframe",
	Short: "Frame-accurate beat estimation for timebase transports",
	Long:  `Estimates the exact audio frame of each musical beat from per-cycle transport positions.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
