package conversion

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stagepass/stagepass/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSubmitPostsRequest(t *testing.T) {
	var got Request
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(&config.ConversionConfiguration{
		Enable:   true,
		Endpoint: server.URL,
		APIKey:   "secret-key",
	}, zaptest.NewLogger(t))

	err := client.Submit(context.Background(), &Request{
		DeckID:      7,
		DownloadURL: "https://assets.example.com/deck.pdf?sig=x",
		CallbackURL: "https://stagepass.example.com/webhooks/conversion",
	})
	assert.NoError(t, err)
	assert.Equal(t, 7, got.DeckID)
	assert.Equal(t, "Bearer secret-key", auth)
}

func TestSubmitDisabled(t *testing.T) {
	client := NewClient(&config.ConversionConfiguration{}, zaptest.NewLogger(t))
	err := client.Submit(context.Background(), &Request{DeckID: 1})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSubmitRejectedByService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(&config.ConversionConfiguration{
		Enable:   true,
		Endpoint: server.URL,
	}, zaptest.NewLogger(t))
	err := client.Submit(context.Background(), &Request{DeckID: 1})
	assert.Error(t, err)
}

func TestVerifyWebhook(t *testing.T) {
	client := NewClient(&config.ConversionConfiguration{
		Enable:        true,
		WebhookSecret: "hook-secret",
	}, zaptest.NewLogger(t))

	thumb := "1/decks/7/thumb.png"
	body, _ := json.Marshal(&Result{DeckID: 7, Success: true, ThumbnailKey: &thumb})

	result, err := client.VerifyWebhook(body, sign("hook-secret", body))
	assert.NoError(t, err)
	assert.Equal(t, 7, result.DeckID)
	assert.True(t, result.Success)
	assert.Equal(t, thumb, *result.ThumbnailKey)
}

func TestVerifyWebhookBadSignature(t *testing.T) {
	client := NewClient(&config.ConversionConfiguration{
		Enable:        true,
		WebhookSecret: "hook-secret",
	}, zaptest.NewLogger(t))

	body, _ := json.Marshal(&Result{DeckID: 7, Success: true})
	_, err := client.VerifyWebhook(body, sign("wrong-secret", body))
	assert.ErrorIs(t, err, ErrBadSignature)
}
