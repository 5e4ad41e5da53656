package api

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/stagepass/stagepass/auth"
	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/conversion"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/storage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	log    *zap.Logger
}

func NewServer(
	cfg *config.Configuration,
	logger *zap.Logger,
	store *db.DataStore,
	issuer *auth.Issuer,
	signInService *auth.SignInService,
	authority *tokens.Authority,
	links *tokens.Links,
	eventService *manage.EventService,
	agendaService *manage.AgendaService,
	mediaService *manage.MediaService,
	tenantService *manage.TenantService,
	metricsService *manage.MetricsService,
	inviteService *manage.InviteService,
	converter *conversion.Client,
	objects storage.ObjectStore,
	signer *storage.Signer,
) (*Server, error) {
	api, err := compose(logger.Named("api"),
		cfg,
		store,
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
		signer)
	if err != nil {
		return nil, err
	}
	bind := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	srv := http.Server{
		Addr:              bind,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{
		server: &srv,
		log:    logger,
	}, nil
}

// Start runs ListenAndServe on the http.Server with graceful shutdown.
func (srv *Server) Start() error {
	srv.log.Info("starting server")
	go func() {
		if err := srv.server.ListenAndServe(); err != http.ErrServerClosed {
			panic(err)
		}
	}()
	srv.log.Info("listening", zap.String("addr", srv.server.Addr))

	quit := make(chan os.Signal, 1)
	//nolint
	signal.Notify(quit, os.Interrupt)
	sig := <-quit
	srv.log.Info("shutting down", zap.String("signal", sig.String()))

	if err := srv.server.Shutdown(context.Background()); err != nil {
		srv.log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	srv.log.Info("graceful shutdown completed")
	return nil
}
