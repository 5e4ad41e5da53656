package public

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/stagepass/stagepass/auth"
	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/conversion"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/storage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

// PublicRessource habours the unauthenticated participant endpoints
type PublicRessource struct {
	log            *zap.Logger
	cfg            *config.Configuration
	validate       *validator.Validate
	store          *db.DataStore
	signInService  *auth.SignInService
	authority      *tokens.Authority
	mediaService   *manage.MediaService
	metricsService *manage.MetricsService
	converter      *conversion.Client
	objects        storage.ObjectStore
	signer         *storage.Signer
}

func NewPublicRessource(logger *zap.Logger,
	cfg *config.Configuration,
	validate *validator.Validate,
	store *db.DataStore,
	signInService *auth.SignInService,
	authority *tokens.Authority,
	mediaService *manage.MediaService,
	metricsService *manage.MetricsService,
	converter *conversion.Client,
	objects storage.ObjectStore,
	signer *storage.Signer,
) *PublicRessource {
	return &PublicRessource{
		log:            logger,
		cfg:            cfg,
		validate:       validate,
		store:          store,
		signInService:  signInService,
		authority:      authority,
		mediaService:   mediaService,
		metricsService: metricsService,
		converter:      converter,
		objects:        objects,
		signer:         signer,
	}
}

func (p *PublicRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/.ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	r.Post("/auth/signin", p.signIn)

	validateRouter := chi.NewRouter()
	if p.cfg.Behaviour.ValidateRateLimit > 0 {
		validateRouter.Use(httprate.LimitByIP(p.cfg.Behaviour.ValidateRateLimit, time.Minute))
	}
	validateRouter.Post("/", p.validateToken)
	r.Mount("/tokens/validate", validateRouter)

	r.Get("/events/{slug}", p.eventBySlug)
	r.Get("/decks/{deckID}/download", p.downloadDeck)
	r.Post("/webhooks/conversion", p.conversionWebhook)
	r.Get("/assets/*", p.asset)

	return r
}
