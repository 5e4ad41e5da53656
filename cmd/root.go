package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stagepass/stagepass/config"
	"go.uber.org/zap"
)

// ConfigFileLocation is of the config to load
var ConfigFileLocation string

// TopLevelLogger is the logger all loggers come from
var TopLevelLogger *zap.Logger

// LoadedConfig is the currently loaded configuration after initial bootstrapping
var LoadedConfig *config.Configuration

var rootCommand = cobra.Command{
	Use:   "stagepass",
	Short: "stagepass event access service",
	Long: `stagepass is a multi tenant event management service,
	it hosts event pages, slide decks and galleries and gates private
	events with opaque access tokens`,
	Run: func(cmd *cobra.Command, args []string) {
		serveCommand.Run(cmd, args)
	},
}

func Execute() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {

	rootCommand.PersistentFlags().
		StringVar(&ConfigFileLocation, "config", "", "config file to be used")

	verifyCommand.AddCommand(&sendTestMailCommand)

	tenantCommand.AddCommand(&createTenantCommand)
	tenantCommand.AddCommand(&listTenantsCommand)

	adminCommand.AddCommand(&createAdminCommand)

	eventCommand.AddCommand(&listEventsCommand)

	tokenCommand.AddCommand(&issueTokenCommand)
	tokenCommand.AddCommand(&listTokensCommand)
	tokenCommand.AddCommand(&revokeTokenCommand)

	rootCommand.AddCommand(&serveCommand)
	rootCommand.AddCommand(&tenantCommand)
	rootCommand.AddCommand(&adminCommand)
	rootCommand.AddCommand(&eventCommand)
	rootCommand.AddCommand(&tokenCommand)
	rootCommand.AddCommand(&verifyCommand)
}
