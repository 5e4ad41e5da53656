package admin

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type genericSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (g *genericSuccessResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

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

// validationErrorResponse is the 422 envelope, one entry per offending
// field
type validationErrorResponse struct {
	Errors []fieldError `json:"errors"`
}

func (e *validationErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusUnprocessableEntity)
	return nil
}

func unprocessable(field string, message string) *validationErrorResponse {
	return &validationErrorResponse{
		Errors: []fieldError{{Field: field, Message: message}},
	}
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

type createEventRequest struct {
	Slug        string    `json:"slug"        validate:"required,min=3,max=150"`
	Title       string    `json:"title"       validate:"required,max=255"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"  validate:"required,oneof=public private"`
	StartsAt    time.Time `json:"starts_at"   validate:"required"`
	EndsAt      time.Time `json:"ends_at"     validate:"required"`
}

type updateEventRequest struct {
	Title       string    `json:"title"       validate:"required,max=255"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"   validate:"required"`
	EndsAt      time.Time `json:"ends_at"     validate:"required"`
}

type visibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=public private"`
}

type issueTokenRequest struct {
	TokenType string     `json:"token_type" validate:"required,oneof=organizer participant"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type sendLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type sessionRequest struct {
	Title     string    `json:"title"      validate:"required,max=255"`
	StartsAt  time.Time `json:"starts_at"  validate:"required"`
	EndsAt    time.Time `json:"ends_at"    validate:"required"`
	SortOrder int       `json:"sort_order"`
}

type speechRequest struct {
	Title       string `json:"title"        validate:"required,max=255"`
	Speaker     string `json:"speaker"      validate:"max=255"`
	Summary     string `json:"summary"`
	DurationMin int    `json:"duration_min" validate:"gte=0"`
	SortOrder   int    `json:"sort_order"`
}

type brandingRequest struct {
	PrimaryColor string `json:"primary_color" validate:"required"`
	AccentColor  string `json:"accent_color"  validate:"required"`
}

type planRequest struct {
	Plan string `json:"plan" validate:"required"`
}

type accessLinkResponse struct {
	URL string `json:"url"`
}

func (*accessLinkResponse) Render(http.ResponseWriter, *http.Request) error {
	return nil
}
