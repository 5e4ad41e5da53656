package cmd

import (
	"github.com/spf13/cobra"
)

var tokenCommand = cobra.Command{
	Use:   "token",
	Short: "access token related commands",
	Long:  `commands for issuing and inspecting event access tokens`,
}
