package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/manage"
	"go.uber.org/zap"
)

func (m *AdminRessource) listEvents(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	page := r.Context().Value(pageKey).(int)
	pageSize := r.Context().Value(pageSizeKey).(int)
	query := r.Context().Value(queryKey).(string)
	sort := r.Context().Value(sortKey).(string)

	events, err := m.eventService.List(r.Context(), tenant, page, pageSize, query, sort)
	if err != nil {
		m.log.Error("error listing events", zap.Error(err))
		_ = render.Render(w, r, createError("unable to list events", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, events)
}

func (m *AdminRessource) createEvent(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.log.Info("invalid payload data", zap.Error(err))
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	dto, err := m.eventService.Create(
		r.Context(),
		tenant,
		req.Slug,
		req.Title,
		req.Description,
		req.Visibility,
		req.StartsAt,
		req.EndsAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrSlugTaken):
			_ = render.Render(w, r, createError("slug already taken", http.StatusConflict))
		case errors.Is(err, manage.ErrPlanLimitReached):
			_ = render.Render(w, r, createError("plan event limit reached", http.StatusForbidden))
		case errors.Is(err, manage.ErrInvalidSchedule):
			_ = render.Render(w, r, unprocessable("ends_at", "End must be after start"))
		default:
			m.log.Error("error creating event", zap.Error(err))
			_ = render.Render(w, r, createError("unable to create event", http.StatusInternalServerError))
		}
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, dto)
}

func (m *AdminRessource) eventByID(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "eventID")
	if !ok {
		_ = render.Render(w, r, createError("invalid event id", http.StatusBadRequest))
		return
	}
	dto, err := m.eventService.ByID(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
			return
		}
		m.log.Error("error loading event", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load event", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, dto)
}

func (m *AdminRessource) updateEvent(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "eventID")
	if !ok {
		_ = render.Render(w, r, createError("invalid event id", http.StatusBadRequest))
		return
	}
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	dto, err := m.eventService.Update(r.Context(), tenant, id, req.Title, req.Description, req.StartsAt, req.EndsAt)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrInvalidSchedule):
			_ = render.Render(w, r, unprocessable("ends_at", "End must be after start"))
		default:
			m.log.Error("error updating event", zap.Error(err))
			_ = render.Render(w, r, createError("unable to update event", http.StatusInternalServerError))
		}
		return
	}
	render.Respond(w, r, dto)
}

func (m *AdminRessource) setEventVisibility(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "eventID")
	if !ok {
		_ = render.Render(w, r, createError("invalid event id", http.StatusBadRequest))
		return
	}
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	err := m.eventService.SetVisibility(r.Context(), tenant, id, req.Visibility)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
			return
		}
		m.log.Error("error setting visibility", zap.Error(err))
		_ = render.Render(w, r, createError("unable to set visibility", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "visibility updated"})
}

func (m *AdminRessource) deleteEvent(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "eventID")
	if !ok {
		_ = render.Render(w, r, createError("invalid event id", http.StatusBadRequest))
		return
	}
	err := m.eventService.Delete(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
			return
		}
		m.log.Error("error deleting event", zap.Error(err))
		_ = render.Render(w, r, createError("unable to delete event", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "event deleted"})
}

func (m *AdminRessource) eventMetrics(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "eventID")
	if !ok {
		_ = render.Render(w, r, createError("invalid event id", http.StatusBadRequest))
		return
	}
	dto, err := m.metricsService.EventMetrics(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
			return
		}
		m.log.Error("error loading metrics", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load metrics", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, dto)
}

func (m *AdminRessource) dashboard(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	dto, err := m.metricsService.Dashboard(r.Context(), tenant)
	if err != nil {
		m.log.Error("error loading dashboard", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load dashboard", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, dto)
}
