package cmd

import (
	"github.com/spf13/cobra"
)

var adminCommand = cobra.Command{
	Use:   "admin",
	Short: "admin account related commands",
	Long:  `commands for managing agency administrator accounts`,
}
