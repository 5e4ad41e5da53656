package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFromValidationErrorsMapsFields(t *testing.T) {
	v := validator.New()
	req := issueTokenRequest{TokenType: "backstage"}
	err := v.Struct(&req)
	assert.Error(t, err)

	res := fromValidationErrors(err)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, "tokentype", res.Errors[0].Field)
	assert.Equal(t, "failed validation on oneof", res.Errors[0].Message)
}

func TestFromValidationErrorsHandlesForeignErrors(t *testing.T) {
	res := fromValidationErrors(assert.AnError)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, "invalid payload", res.Errors[0].Message)
}

func TestUnprocessableCarriesFieldAndMessage(t *testing.T) {
	res := unprocessable("expires_at", "Expiration date must be in the future")
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, "expires_at", res.Errors[0].Field)
	assert.Equal(t, "Expiration date must be in the future", res.Errors[0].Message)
}

func TestPageinateDefaults(t *testing.T) {
	var page, pageSize int
	var query, sort string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page = r.Context().Value(pageKey).(int)
		pageSize = r.Context().Value(pageSizeKey).(int)
		query = r.Context().Value(queryKey).(string)
		sort = r.Context().Value(sortKey).(string)
	})
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	pageinate(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, page)
	assert.Equal(t, 12, pageSize)
	assert.Equal(t, "", query)
	assert.Equal(t, "", sort)
}

func TestPageinateReadsQuery(t *testing.T) {
	var page, pageSize int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page = r.Context().Value(pageKey).(int)
		pageSize = r.Context().Value(pageSizeKey).(int)
	})
	req := httptest.NewRequest(http.MethodGet, "/events?page=3&page_size=25", nil)
	pageinate(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 3, page)
	assert.Equal(t, 25, pageSize)
}
