package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stagepass/stagepass/api/app/admin"
	"github.com/stagepass/stagepass/api/app/public"
	"github.com/stagepass/stagepass/auth"
	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/conversion"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/storage"
	"github.com/stagepass/stagepass/tokens"

	"go.uber.org/zap"
)

var validate *validator.Validate
var tokenAuth *jwtauth.JWTAuth

func compose(logger *zap.Logger,
	cfg *config.Configuration,
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
) (*chi.Mux, error) {
	validate = validator.New()

	// use same settings as issuer (duh)
	tokenAuth = jwtauth.New(issuer.Alg(), issuer.PrivateKey(), issuer.VerificationKey())

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(loggerMiddleware(logger))

	r.Use(middleware.Recoverer)

	r.Use(middleware.Timeout(50 * time.Second))
	r.Use(jwtauth.Verifier(tokenAuth))

	if cfg.DebugMode() {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("running in debug mode - no auto redirects to site"))
		})
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, cfg.Frontend.BaseURL, http.StatusFound)
		})
	}

	adminRessource := admin.NewAdminRessource(
		logger.Named("admin_ressource"),
		cfg,
		validate,
		authority,
		links,
		eventService,
		agendaService,
		mediaService,
		tenantService,
		metricsService,
		inviteService,
	)
	publicRessource := public.NewPublicRessource(
		logger.Named("public_ressource"),
		cfg,
		validate,
		store,
		signInService,
		authority,
		mediaService,
		metricsService,
		converter,
		objects,
		signer,
	)

	r.Mount("/manage", adminRessource.Router())
	r.Mount("/", publicRessource.Router())

	return r, nil
}
