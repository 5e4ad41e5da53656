package cmd

import (
	"github.com/spf13/cobra"
)

var tenantCommand = cobra.Command{
	Use:   "tenant",
	Short: "tenant related commands",
	Long:  `commands for managing agency accounts`,
}
