package cmd

import (
	"github.com/spf13/cobra"
)

var eventCommand = cobra.Command{
	Use:   "event",
	Short: "event related commands",
	Long:  `commands for inspecting events`,
}
