package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stagepass/stagepass/db"
)

var createTenantPlan string

var createTenantCommand = cobra.Command{
	Use:   "create [slug] [name]",
	Short: "creates a new agency account",
	Long:  `this command creates a new agency account with default branding`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if _, ok := LoadedConfig.Plan(createTenantPlan); !ok {
			fmt.Printf("Unknown plan: %s\r\n", createTenantPlan)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		id, err := dataStore.InsertTenant(cmd.Context(), args[0], args[1], createTenantPlan)
		if err != nil {
			if errors.Is(err, db.ErrAlreadyExists) {
				fmt.Printf("Tenant slug already taken: %s\r\n", args[0])
				os.Exit(1)
				return
			}
			fmt.Printf("Unable to create tenant: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Created tenant %s (%s) with id: %d\r\n", args[1], args[0], id)
	},
}

func init() {
	createTenantCommand.Flags().
		StringVar(&createTenantPlan, "plan", "basic", "subscription plan of the new tenant")
}
