package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stagepass/stagepass/api"
	"github.com/stagepass/stagepass/auth"
	"github.com/stagepass/stagepass/conversion"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/storage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

var serveCommand = cobra.Command{
	Use:   "serve",
	Short: "starts the http server",
	Long:  `Starts a http server and serves the service`,
	Run: func(cmd *cobra.Command, args []string) {
		//this is our composite root - might wanna shift that somewhere else later

		//setup datastore
		dataStore := mustResolveUsableDataStore()

		//events dispatcher
		dispatcher := bootstrapDispatcher(dataStore.Auditor())

		//setup jwt issuer for the manage surface
		issuer := auth.NewIssuer(TopLevelLogger.Named("jwt_issuer"), LoadedConfig.JWT)

		//setup mailer
		mailer := mustResolveMailer()

		//object storage, presigner and the conversion client
		objects := mustResolveObjectStore()
		signer := storage.NewSigner(
			LoadedConfig.Storage.SigningKey,
			LoadedConfig.Storage.PresignExpiry,
		)
		converter := conversion.NewClient(LoadedConfig.Conversion, TopLevelLogger.Named("converter"))

		//the token authority and its link builder
		authority := resolveAuthority(dataStore, dispatcher)
		links := tokens.NewLinks(dataStore, LoadedConfig.Frontend.BaseURL)

		//setup business services
		signInService := auth.NewSignInService(
			dataStore,
			TopLevelLogger.Named("signin_service"),
			dispatcher,
			issuer,
		)
		eventService := manage.NewEventService(
			dataStore,
			TopLevelLogger.Named("event_service"),
			dispatcher,
			LoadedConfig,
			signer,
		)
		agendaService := manage.NewAgendaService(
			dataStore,
			TopLevelLogger.Named("agenda_service"),
			dispatcher,
		)
		mediaService := manage.NewMediaService(
			dataStore,
			objects,
			signer,
			converter,
			authority,
			TopLevelLogger.Named("media_service"),
			dispatcher,
			LoadedConfig,
		)
		tenantService := manage.NewTenantService(
			dataStore,
			TopLevelLogger.Named("tenant_service"),
			dispatcher,
			LoadedConfig,
			signer,
		)
		metricsService := manage.NewMetricsService(dataStore, TopLevelLogger.Named("metrics_service"))
		inviteService := manage.NewInviteService(
			dataStore,
			authority,
			links,
			mailer,
			TopLevelLogger.Named("invite_service"),
			dispatcher,
		)

		server, err := api.NewServer(LoadedConfig, TopLevelLogger.Named("server"),
			dataStore,
			issuer,
			signInService,
			authority,
			links,
			eventService,
			agendaService,
			mediaService,
			tenantService,
			metricsService,
			inviteService,
			converter,
			objects,
			signer,
		)
		if err != nil {
			TopLevelLogger.Fatal("Failed to create server", zap.Error(err))
		}
		if err := server.Start(); err != nil {
			TopLevelLogger.Fatal("Server stopped", zap.Error(err))
		}
		TopLevelLogger.Info("Shutdown complete")
	},
}

func init() {
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.address", "")
}
