package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/manage"
	"go.uber.org/zap"
)

func (m *AdminRessource) listSessions(w http.ResponseWriter, r *http.Request) {
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
	sessions, err := m.agendaService.Sessions(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
			return
		}
		m.log.Error("error listing sessions", zap.Error(err))
		_ = render.Render(w, r, createError("unable to list sessions", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, sessions)
}

func (m *AdminRessource) createSession(w http.ResponseWriter, r *http.Request) {
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
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	dto, err := m.agendaService.CreateSession(r.Context(), tenant, id, req.Title, req.StartsAt, req.EndsAt, req.SortOrder)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrInvalidSchedule):
			_ = render.Render(w, r, unprocessable("ends_at", "End must be after start"))
		default:
			m.log.Error("error creating session", zap.Error(err))
			_ = render.Render(w, r, createError("unable to create session", http.StatusInternalServerError))
		}
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, dto)
}

func (m *AdminRessource) updateSession(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "sessionID")
	if !ok {
		_ = render.Render(w, r, createError("invalid session id", http.StatusBadRequest))
		return
	}
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	err := m.agendaService.UpdateSession(r.Context(), tenant, id, req.Title, req.StartsAt, req.EndsAt, req.SortOrder)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("session not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrInvalidSchedule):
			_ = render.Render(w, r, unprocessable("ends_at", "End must be after start"))
		default:
			m.log.Error("error updating session", zap.Error(err))
			_ = render.Render(w, r, createError("unable to update session", http.StatusInternalServerError))
		}
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "session updated"})
}

func (m *AdminRessource) deleteSession(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "sessionID")
	if !ok {
		_ = render.Render(w, r, createError("invalid session id", http.StatusBadRequest))
		return
	}
	err := m.agendaService.DeleteSession(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("session not found", http.StatusNotFound))
			return
		}
		m.log.Error("error deleting session", zap.Error(err))
		_ = render.Render(w, r, createError("unable to delete session", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "session deleted"})
}

func (m *AdminRessource) createSpeech(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "sessionID")
	if !ok {
		_ = render.Render(w, r, createError("invalid session id", http.StatusBadRequest))
		return
	}
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	dto, err := m.agendaService.CreateSpeech(r.Context(), tenant, id, req.Title, req.Speaker, req.Summary, req.DurationMin, req.SortOrder)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("session not found", http.StatusNotFound))
			return
		}
		m.log.Error("error creating speech", zap.Error(err))
		_ = render.Render(w, r, createError("unable to create speech", http.StatusInternalServerError))
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, dto)
}

func (m *AdminRessource) updateSpeech(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "speechID")
	if !ok {
		_ = render.Render(w, r, createError("invalid speech id", http.StatusBadRequest))
		return
	}
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	err := m.agendaService.UpdateSpeech(r.Context(), tenant, id, req.Title, req.Speaker, req.Summary, req.DurationMin, req.SortOrder)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("speech not found", http.StatusNotFound))
			return
		}
		m.log.Error("error updating speech", zap.Error(err))
		_ = render.Render(w, r, createError("unable to update speech", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "speech updated"})
}

func (m *AdminRessource) deleteSpeech(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "speechID")
	if !ok {
		_ = render.Render(w, r, createError("invalid speech id", http.StatusBadRequest))
		return
	}
	err := m.agendaService.DeleteSpeech(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("speech not found", http.StatusNotFound))
			return
		}
		m.log.Error("error deleting speech", zap.Error(err))
		_ = render.Render(w, r, createError("unable to delete speech", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "speech deleted"})
}
