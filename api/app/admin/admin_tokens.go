package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

func (m *AdminRessource) listTokens(w http.ResponseWriter, r *http.Request) {
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
	opts := db.ListOptions{
		Page:     r.Context().Value(pageKey).(int),
		PageSize: r.Context().Value(pageSizeKey).(int),
		Query:    r.Context().Value(queryKey).(string),
		Sort:     r.Context().Value(sortKey).(string),
	}
	list, err := m.authority.List(r.Context(), tenant, id, r.URL.Query().Get("status"), opts)
	if err != nil {
		if errors.Is(err, tokens.ErrNotFound) {
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
			return
		}
		if errors.Is(err, tokens.ErrInvalidStatusFilter) {
			_ = render.Render(w, r, unprocessable("status", "failed validation on oneof"))
			return
		}
		m.log.Error("error listing tokens", zap.Error(err))
		_ = render.Render(w, r, createError("unable to list tokens", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, list)
}

func (m *AdminRessource) issueToken(w http.ResponseWriter, r *http.Request) {
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
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	dto, err := m.authority.Issue(r.Context(), tenant, id, req.TokenType, req.ExpiresAt, adminID(r))
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrNotFound):
			_ = render.Render(w, r, createError("event not found", http.StatusNotFound))
		case errors.Is(err, tokens.ErrPublicEvent):
			_ = render.Render(w, r, createError("Tokens can only be generated for private events", http.StatusForbidden))
		case errors.Is(err, tokens.ErrExpiryInPast):
			_ = render.Render(w, r, unprocessable("expires_at", "Expiration date must be in the future"))
		case errors.Is(err, tokens.ErrInvalidTokenType):
			_ = render.Render(w, r, unprocessable("token_type", "failed validation on oneof"))
		default:
			m.log.Error("error issuing token", zap.Error(err))
			_ = render.Render(w, r, createError("unable to issue token", http.StatusInternalServerError))
		}
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, dto)
}

func (m *AdminRessource) tokenByID(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "tokenID")
	if !ok {
		_ = render.Render(w, r, createError("invalid token id", http.StatusBadRequest))
		return
	}
	dto, err := m.authority.Get(r.Context(), tenant, id)
	if err != nil {
		if errors.Is(err, tokens.ErrNotFound) {
			_ = render.Render(w, r, createError("token not found", http.StatusNotFound))
			return
		}
		m.log.Error("error loading token", zap.Error(err))
		_ = render.Render(w, r, createError("unable to load token", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, dto)
}

// revokeToken is safe to retry, revoking twice reports the state of the
// first revocation with a 200
func (m *AdminRessource) revokeToken(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "tokenID")
	if !ok {
		_ = render.Render(w, r, createError("invalid token id", http.StatusBadRequest))
		return
	}
	dto, err := m.authority.Revoke(r.Context(), tenant, id, adminID(r))
	if err != nil {
		if errors.Is(err, tokens.ErrNotFound) {
			_ = render.Render(w, r, createError("token not found", http.StatusNotFound))
			return
		}
		m.log.Error("error revoking token", zap.Error(err))
		_ = render.Render(w, r, createError("unable to revoke token", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, dto)
}

func (m *AdminRessource) tokenLink(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "tokenID")
	if !ok {
		_ = render.Render(w, r, createError("invalid token id", http.StatusBadRequest))
		return
	}
	link, err := m.links.AccessURL(r.Context(), tenant, id)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrNotFound):
			_ = render.Render(w, r, createError("token not found", http.StatusNotFound))
		case errors.Is(err, tokens.ErrRevokedToken):
			_ = render.Render(w, r, createError("token has been revoked", http.StatusGone))
		default:
			m.log.Error("error building access link", zap.Error(err))
			_ = render.Render(w, r, createError("unable to build access link", http.StatusInternalServerError))
		}
		return
	}
	_ = render.Render(w, r, &accessLinkResponse{URL: link})
}

func (m *AdminRessource) tokenQR(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "tokenID")
	if !ok {
		_ = render.Render(w, r, createError("invalid token id", http.StatusBadRequest))
		return
	}
	png, err := m.links.QRCode(r.Context(), tenant, id)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrNotFound):
			_ = render.Render(w, r, createError("token not found", http.StatusNotFound))
		case errors.Is(err, tokens.ErrRevokedToken):
			_ = render.Render(w, r, createError("token has been revoked", http.StatusGone))
		default:
			m.log.Error("error rendering qr code", zap.Error(err))
			_ = render.Render(w, r, createError("unable to render qr code", http.StatusInternalServerError))
		}
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

func (m *AdminRessource) sendAccessLink(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, ok := urlID(r, "tokenID")
	if !ok {
		_ = render.Render(w, r, createError("invalid token id", http.StatusBadRequest))
		return
	}
	var req sendLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := m.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	err := m.inviteService.SendAccessLink(r.Context(), tenant, id, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("token not found", http.StatusNotFound))
		case errors.Is(err, manage.ErrTokenRevoked):
			_ = render.Render(w, r, createError("token has been revoked", http.StatusGone))
		default:
			m.log.Error("error sending access link", zap.Error(err))
			_ = render.Render(w, r, createError("unable to send access link", http.StatusInternalServerError))
		}
		return
	}
	_ = render.Render(w, r, &genericSuccessResponse{Success: true, Message: "access link sent"})
}
