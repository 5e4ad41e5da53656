package public

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/stagepass/stagepass/manage"
)

func createError(err string, status int) *genericErrorResponse {
	return &genericErrorResponse{
		Error:      err,
		StatusCode: status,
	}
}

type genericErrorResponse struct {
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *genericErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Errors []fieldError `json:"errors"`
}

func (e *validationErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusUnprocessableEntity)
	return nil
}

func fromValidationErrors(err error) *validationErrorResponse {
	res := &validationErrorResponse{Errors: make([]fieldError, 0)}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			res.Errors = append(res.Errors, fieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: "failed validation on " + fe.Tag(),
			})
		}
		return res
	}
	res.Errors = append(res.Errors, fieldError{Field: "", Message: "invalid payload"})
	return res
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signInResponse struct {
	Token    string `json:"token"`
	AdminID  string `json:"admin_id"`
	TenantID int    `json:"tenant_id"`
	Email    string `json:"email"`
}

func (*signInResponse) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

// the event scope is optional, a bare token can be checked on its own
type validateTokenRequest struct {
	Token     string `json:"token"      validate:"required"`
	EventSlug string `json:"event_slug"`
}

// eventPageResponse is the participant facing event page, agenda and
// branding included
type eventPageResponse struct {
	Event    *manage.EventDTO     `json:"event"`
	Agenda   []*manage.SessionDTO `json:"agenda"`
	Branding *manage.BrandingDTO  `json:"branding,omitempty"`
}

func (*eventPageResponse) Render(http.ResponseWriter, *http.Request) error {
	return nil
}
