package public

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/generator"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

// validateToken is the bare token check used by frontends before they
// navigate into an event. A valid call counts as a token use.
func (p *PublicRessource) validateToken(w http.ResponseWriter, r *http.Request) {
	var req validateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := p.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	// malformed tokens are turned away before any lookup runs
	if len(req.Token) != generator.AccessCodeLength {
		render.Respond(w, r, &tokens.ValidationResult{Valid: false, Reason: tokens.ReasonMalformed})
		return
	}
	eventID := 0
	if req.EventSlug != "" {
		ev, err := p.store.EventBySlug(r.Context(), req.EventSlug)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
				return
			}
			p.log.Error("error loading event", zap.Error(err))
			_ = render.Render(w, r, createError("unable to validate token", http.StatusInternalServerError))
			return
		}
		eventID = ev.ID
	}
	result, err := p.authority.Validate(r.Context(), req.Token, eventID)
	if err != nil {
		p.log.Error("error validating token", zap.Error(err))
		_ = render.Render(w, r, createError("unable to validate token", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, result)
}

// eventBySlug serves the participant facing event page. Public events
// are open to anyone, private ones require a valid token in the query.
func (p *PublicRessource) eventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ev, err := p.store.EventBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
			return
		}
		p.log.Error("error loading event", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load event", http.StatusInternalServerError))
		return
	}
	if ev.Visibility == "private" {
		result, err := p.authority.Validate(r.Context(), r.URL.Query().Get("token"), ev.ID)
		if err != nil {
			p.log.Error("error validating token", zap.Error(err))
			_ = render.Render(w, r, createError("unable to load event", http.StatusInternalServerError))
			return
		}
		if !result.Valid {
			_ = render.Render(w, r, createError(result.Reason, http.StatusForbidden))
			return
		}
	}
	page, err := p.eventPage(r, ev)
	if err != nil {
		p.log.Error("error building event page", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load event", http.StatusInternalServerError))
		return
	}
	p.metricsService.RecordEventView(r.Context(), ev.TenantID, ev.ID)
	_ = render.Render(w, r, page)
}

func (p *PublicRessource) eventPage(r *http.Request, ev *tables.EventTable) (*eventPageResponse, error) {
	dto := &manage.EventDTO{
		ID:          ev.ID,
		Slug:        ev.Slug,
		Title:       ev.Title,
		Description: ev.Description,
		Visibility:  ev.Visibility,
		StartsAt:    ev.StartsAt,
		EndsAt:      ev.EndsAt,
		CreatedAt:   ev.CreatedAt,
		UpdatedAt:   ev.UpdatedAt,
	}
	if ev.BannerKey != nil {
		dto.BannerURL = p.signer.PresignedURL(p.cfg.Storage.PublicURL, *ev.BannerKey)
	}
	sessions, err := p.store.Sessions(r.Context(), ev.TenantID, ev.ID)
	if err != nil {
		return nil, err
	}
	agenda := make([]*manage.SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		sdto := &manage.SessionDTO{
			ID:        s.ID,
			EventID:   s.EventID,
			Title:     s.Title,
			StartsAt:  s.StartsAt,
			EndsAt:    s.EndsAt,
			SortOrder: s.SortOrder,
		}
		speeches, err := p.store.Speeches(r.Context(), ev.TenantID, s.ID)
		if err != nil {
			return nil, err
		}
		for _, sp := range speeches {
			sdto.Speeches = append(sdto.Speeches, &manage.SpeechDTO{
				ID:          sp.ID,
				SessionID:   sp.SessionID,
				Title:       sp.Title,
				Speaker:     sp.Speaker,
				Summary:     sp.Summary,
				DurationMin: sp.DurationMin,
				SortOrder:   sp.SortOrder,
			})
		}
		agenda = append(agenda, sdto)
	}
	page := &eventPageResponse{Event: dto, Agenda: agenda}
	branding, err := p.store.Branding(r.Context(), ev.TenantID)
	if err == nil {
		page.Branding = &manage.BrandingDTO{
			PrimaryColor: branding.PrimaryColor,
			AccentColor:  branding.AccentColor,
			UpdatedAt:    branding.UpdatedAt,
		}
		if branding.LogoKey != nil {
			page.Branding.LogoURL = p.signer.PresignedURL(p.cfg.Storage.PublicURL, *branding.LogoKey)
		}
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	return page, nil
}
