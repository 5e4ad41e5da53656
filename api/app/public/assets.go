package public

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/conversion"
	"github.com/stagepass/stagepass/manage"
	"github.com/stagepass/stagepass/storage"
	"go.uber.org/zap"
)

// webhook payloads are small json bodies
const maxWebhookBody = 1 << 20

func (p *PublicRessource) downloadDeck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "deckID"))
	if err != nil || id <= 0 {
		_ = render.Render(w, r, createError("invalid deck id", http.StatusBadRequest))
		return
	}
	download, err := p.mediaService.PublicDeckDownload(r.Context(), id, r.URL.Query().Get("token"))
	if err != nil {
		var denied *manage.AccessDeniedError
		switch {
		case errors.As(err, &denied):
			_ = render.Render(w, r, createError(denied.Reason, http.StatusForbidden))
		case errors.Is(err, manage.ErrNotFound):
			_ = render.Render(w, r, createError("deck not found", http.StatusNotFound))
		default:
			p.log.Error("error serving deck download", zap.Error(err))
			_ = render.Render(w, r, createError("unable to serve download", http.StatusInternalServerError))
		}
		return
	}
	defer func() { _ = download.Content.Close() }()

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.FileName))
	if download.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(download.SizeBytes, 10))
	}
	if _, err := io.Copy(w, download.Content); err != nil {
		p.log.Warn("deck download aborted", zap.Int("deck_id", id), zap.Error(err))
	}
}

func (p *PublicRessource) conversionWebhook(w http.ResponseWriter, r *http.Request) {
	if !p.converter.Enabled() {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	result, err := p.converter.VerifyWebhook(body, r.Header.Get(conversion.SignatureHeader))
	if err != nil {
		p.log.Warn("rejected conversion webhook", zap.Error(err))
		_ = render.Render(w, r, createError("invalid signature", http.StatusForbidden))
		return
	}
	if err := p.mediaService.ApplyConversionResult(r.Context(), result); err != nil {
		if errors.Is(err, manage.ErrNotFound) {
			_ = render.Render(w, r, createError("deck not found", http.StatusNotFound))
			return
		}
		p.log.Error("error applying conversion result", zap.Error(err))
		_ = render.Render(w, r, createError("unable to apply result", http.StatusInternalServerError))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// asset serves presigned object storage urls, the signature check is the
// only gate
func (p *PublicRessource) asset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	q := r.URL.Query()
	err := p.signer.Verify(key, q.Get("exp"), q.Get("sig"))
	if err != nil {
		if errors.Is(err, storage.ErrLinkExpired) {
			_ = render.Render(w, r, createError("link expired", http.StatusGone))
			return
		}
		_ = render.Render(w, r, createError("invalid signature", http.StatusForbidden))
		return
	}
	content, err := p.objects.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNoSuchObject) {
			_ = render.Render(w, r, createError("no such object", http.StatusNotFound))
			return
		}
		p.log.Error("error opening object", zap.String("key", key), zap.Error(err))
		_ = render.Render(w, r, createError("unable to serve object", http.StatusInternalServerError))
		return
	}
	defer func() { _ = content.Close() }()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, content); err != nil {
		p.log.Warn("asset download aborted", zap.String("key", key), zap.Error(err))
	}
}
