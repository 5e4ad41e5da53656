package public

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/stagepass/stagepass/auth"
	"go.uber.org/zap"
)

func (p *PublicRessource) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = render.Render(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	if err := p.validate.Struct(&req); err != nil {
		_ = render.Render(w, r, fromValidationErrors(err))
		return
	}
	signedIn, err := p.signInService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			_ = render.Render(w, r, createError("invalid credentials", http.StatusUnauthorized))
			return
		}
		p.log.Error("error signing in", zap.Error(err))
		_ = render.Render(w, r, createError("unable to sign in", http.StatusInternalServerError))
		return
	}
	_ = render.Render(w, r, &signInResponse{
		Token:    signedIn.Token,
		AdminID:  signedIn.AdminID.String(),
		TenantID: signedIn.TenantID,
		Email:    signedIn.Email,
	})
}
