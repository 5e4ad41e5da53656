package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/manage"
	"go.uber.org/zap"
)

// multipart bodies spill to disk above this
const maxUploadMemory = 32 << 20

func (m *AdminRessource) listDecks(w http.ResponseWriter, r *http.Request) {
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
	decks, err := m.mediaService.Decks(r.Context(), tenant, id)
	if err != nil {
		m.log.Error("error listing decks", zap.Error(err))
		_ = render.Render(w, r, createError("unable to list decks", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, decks)
}

func (m *AdminRessource) uploadDeck(w http.ResponseWriter, r *http.Request) {
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

	var speechID *int
	if raw := r.FormValue("speech_id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			_ = render.Render(w, r, unprocessable("speech_id", "must be a positive integer"))
			return
		}
		speechID = &v
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	dto, err := m.mediaService.UploadDeck(r.Context(), tenant, id, speechID, header.Filename, contentType, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrUploadTooLarge):
			_ = render.Render(w, r, createError("upload exceeds plan size limit", http.StatusRequestEntityTooLarge))
		default:
			m.log.Error("error uploading deck", zap.Error(err))
			_ = render.Render(w, r, createError("unable to upload deck", http.StatusInternalServerError))
		}
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, dto)
}

func (m *AdminRessource) deleteDeck(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "deckID")
	if !ok {
		_ = render.Render(w, r, createError("invalid deck id", http.StatusBadRequest))
		return
	}
	err := m.mediaService.DeleteDeck(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("deck not found", http.StatusNotFound))
			return
		}
		m.log.Error("error deleting deck", zap.Error(err))
		_ = render.Render(w, r, createError("unable to delete deck", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "deck deleted"})
}

func (m *AdminRessource) listPhotos(w http.ResponseWriter, r *http.Request) {
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
	photos, err := m.mediaService.Photos(r.Context(), tenant, id)
	if err != nil {
		m.log.Error("error listing photos", zap.Error(err))
		_ = render.Render(w, r, createError("unable to list photos", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, photos)
}

func (m *AdminRessource) uploadPhoto(w http.ResponseWriter, r *http.Request) {
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

	dto, err := m.mediaService.UploadPhoto(r.Context(), tenant, id, header.Filename, r.FormValue("caption"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrGalleryNotInPlan):
			_ = render.Render(w, r, createError("photo gallery is not part of the plan", http.StatusForbidden))
		case errors.Is(err, manage.ErrUploadTooLarge):
			_ = render.Render(w, r, createError("upload exceeds plan size limit", http.StatusRequestEntityTooLarge))
		default:
			m.log.Error("error uploading photo", zap.Error(err))
			_ = render.Render(w, r, createError("unable to upload photo", http.StatusInternalServerError))
		}
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, dto)
}

func (m *AdminRessource) deletePhoto(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "photoID")
	if !ok {
		_ = render.Render(w, r, createError("invalid photo id", http.StatusBadRequest))
		return
	}
	err := m.mediaService.DeletePhoto(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("photo not found", http.StatusNotFound))
			return
		}
		m.log.Error("error deleting photo", zap.Error(err))
		_ = render.Render(w, r, createError("unable to delete photo", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "photo deleted"})
}

func (m *AdminRessource) uploadBanner(w http.ResponseWriter, r *http.Request) {
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

	err = m.mediaService.UploadBanner(r.Context(), tenant, id, header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrUploadTooLarge):
			_ = render.Render(w, r, createError("upload exceeds plan size limit", http.StatusRequestEntityTooLarge))
		default:
			m.log.Error("error uploading banner", zap.Error(err))
			_ = render.Render(w, r, createError("unable to upload banner", http.StatusInternalServerError))
		}
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "banner uploaded"})
}
