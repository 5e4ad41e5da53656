package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stagepass/stagepass/auth"
	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

type contextKey string

const (
	pageKey     contextKey = "page"
	pageSizeKey contextKey = "page_size"
	queryKey    contextKey = "query"
	sortKey     contextKey = "sort"
)

// AdminRessource habours the authenticated agency endpoints
type AdminRessource struct {
	log            *zap.Logger
	cfg            *config.Configuration
	validate       *validator.Validate
	authority      *tokens.Authority
	links          *tokens.Links
	eventService   *manage.EventService
	agendaService  *manage.AgendaService
	mediaService   *manage.MediaService
	tenantService  *manage.TenantService
	metricsService *manage.MetricsService
	inviteService  *manage.InviteService
}

func NewAdminRessource(logger *zap.Logger,
	cfg *config.Configuration,
	validate *validator.Validate,
	authority *tokens.Authority,
	links *tokens.Links,
	eventService *manage.EventService,
	agendaService *manage.AgendaService,
	mediaService *manage.MediaService,
	tenantService *manage.TenantService,
	metricsService *manage.MetricsService,
	inviteService *manage.InviteService,
) *AdminRessource {
	return &AdminRessource{
		log:            logger,
		cfg:            cfg,
		validate:       validate,
		authority:      authority,
		links:          links,
		eventService:   eventService,
		agendaService:  agendaService,
		mediaService:   mediaService,
		tenantService:  tenantService,
		metricsService: metricsService,
		inviteService:  inviteService,
	}
}

func (m *AdminRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	if m.cfg.ManageEndpoint != nil && m.cfg.ManageEndpoint.CORS != nil {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   m.cfg.ManageEndpoint.CORS.AllowedOrigins,
			AllowedMethods:   m.cfg.ManageEndpoint.CORS.AllowedMethods,
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: m.cfg.ManageEndpoint.CORS.AllowCredentials,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		m.log.Debug(
			"not found",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		w.WriteHeader(404)
	})

	r.Get("/.ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	r.Group(func(gr chi.Router) {
		gr.Use(jwtauth.Authenticator)
		gr.Route("/events", func(r chi.Router) {
			r.With(pageinate).Get("/", m.listEvents)
			r.Post("/", m.createEvent)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", m.eventByID)
				r.Put("/", m.updateEvent)
				r.Delete("/", m.deleteEvent)
				r.Put("/visibility", m.setEventVisibility)
				r.Post("/banner", m.uploadBanner)
				r.Get("/metrics", m.eventMetrics)
				r.Route("/tokens", func(r chi.Router) {
					r.With(pageinate).Get("/", m.listTokens)
					r.Post("/", m.issueToken)
				})
				r.Route("/sessions", func(r chi.Router) {
					r.Get("/", m.listSessions)
					r.Post("/", m.createSession)
				})
				r.Route("/decks", func(r chi.Router) {
					r.Get("/", m.listDecks)
					r.Post("/", m.uploadDeck)
				})
				r.Route("/photos", func(r chi.Router) {
					r.Get("/", m.listPhotos)
					r.Post("/", m.uploadPhoto)
				})
			})
		})
		gr.Route("/tokens/{tokenID}", func(r chi.Router) {
			r.Get("/", m.tokenByID)
			r.Post("/revoke", m.revokeToken)
			r.Get("/link", m.tokenLink)
			r.Get("/qr", m.tokenQR)
			r.Post("/send", m.sendAccessLink)
		})
		gr.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Put("/", m.updateSession)
			r.Delete("/", m.deleteSession)
			r.Post("/speeches", m.createSpeech)
		})
		gr.Route("/speeches/{speechID}", func(r chi.Router) {
			r.Put("/", m.updateSpeech)
			r.Delete("/", m.deleteSpeech)
		})
		gr.Route("/decks/{deckID}", func(r chi.Router) {
			r.Delete("/", m.deleteDeck)
		})
		gr.Route("/photos/{photoID}", func(r chi.Router) {
			r.Delete("/", m.deletePhoto)
		})
		gr.Route("/tenant", func(r chi.Router) {
			r.Get("/", m.tenant)
			r.Get("/branding", m.branding)
			r.Put("/branding", m.updateBranding)
			r.Post("/branding/logo", m.uploadLogo)
			r.Put("/plan", m.changePlan)
		})
		gr.Get("/dashboard", m.dashboard)
	})
	return r
}

func pageinate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p := r.URL.Query().Get("page")

		intOrDefault := func(in string, def int) int {
			if in == "" {
				return def
			}
			i, err := strconv.Atoi(in)
			if err != nil {
				return def
			}
			return i
		}
		ctx = context.WithValue(ctx, pageKey, intOrDefault(p, 1))
		s := r.URL.Query().Get("page_size")
		ctx = context.WithValue(ctx, pageSizeKey, intOrDefault(s, 12))

		q := r.URL.Query().Get("query")
		ctx = context.WithValue(ctx, queryKey, q)

		sort := r.URL.Query().Get("sort")
		ctx = context.WithValue(ctx, sortKey, sort)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tenantID pulls the tenant claim out of the verified jwt, every
// manage handler scopes its work with it
func tenantID(r *http.Request) (int, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, false
	}
	raw, ok := claims[auth.ClaimTenantID]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func adminID(r *http.Request) uuid.UUID {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(token.Subject())
	if err != nil {
		return uuid.Nil
	}
	return id
}

func urlID(r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
