package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/manage"
	"go.uber.org/zap"
)

func (m *AdminRessource) tenant(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	dto, err := m.tenantService.Tenant(r.Context(), tenant)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("tenant not found", http.StatusNotFound))
			return
		}
		m.log.Error("error loading tenant", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load tenant", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, dto)
}

func (m *AdminRessource) branding(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	dto, err := m.tenantService.Branding(r.Context(), tenant)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("branding not found", http.StatusNotFound))
			return
		}
		m.log.Error("error loading branding", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load branding", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, dto)
}

func (m *AdminRessource) updateBranding(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	var req brandingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	dto, err := m.tenantService.UpdateBranding(r.Context(), tenant, req.PrimaryColor, req.AccentColor)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrInvalidColor):
			_ = render.Render(w, r, unprocessable("primary_color", "colors must be hex values like #1a1a2e"))
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("branding not found", http.StatusNotFound))
		default:
			m.log.Error("error updating branding", zap.Error(err))
			_ = render.Render(w, r, createError("unable to update branding", http.StatusInternalServerError))
		}
		return
	}
	render.Respond(w, r, dto)
}

func (m *AdminRessource) uploadLogo(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		_ = render.Render(w, r, createError("invalid multipart payload", http.StatusBadRequest))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		_ = render.Render(w, r, unprocessable("file", "file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	err = m.mediaService.UploadLogo(r.Context(), tenant, header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("branding not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrUploadTooLarge):
			_ = render.Render(w, r, createError("upload exceeds plan size limit", http.StatusRequestEntityTooLarge))
		default:
			m.log.Error("error uploading logo", zap.Error(err))
			_ = render.Render(w, r, createError("unable to upload logo", http.StatusInternalServerError))
		}
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "logo uploaded"})
}

func (m *AdminRessource) changePlan(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	err := m.tenantService.ChangePlan(r.Context(), tenant, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrUnknownPlan):
			_ = render.Render(w, r, unprocessable("plan", "unknown plan"))
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("tenant not found", http.StatusNotFound))
		default:
			m.log.Error("error changing plan", zap.Error(err))
			_ = render.Render(w, r, createError("unable to change plan", http.StatusInternalServerError))
		}
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "plan changed"})
}
