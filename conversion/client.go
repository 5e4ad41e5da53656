package conversion

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stagepass/stagepass/config"
	"go.uber.org/zap"
)

// SignatureHeader carries the hmac over the webhook body
const SignatureHeader = "X-Conversion-Signature"

var (
	// ErrDisabled indicates conversion is not configured
	ErrDisabled = errors.New("conversion service is not enabled")
	// ErrBadSignature indicates a webhook body failing verification
	ErrBadSignature = errors.New("webhook signature mismatch")
)

// Request is what gets submitted to the conversion service, the service
// fetches the deck through the presigned url and calls back when done
type Request struct {
	DeckID      int    `json:"deck_id"`
	DownloadURL string `json:"download_url"`
	CallbackURL string `json:"callback_url"`
}

// Result is the webhook payload posted back by the conversion service
type Result struct {
	DeckID       int     `json:"deck_id"`
	Success      bool    `json:"success"`
	ThumbnailKey *string `json:"thumbnail_key,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Client submits slide decks for thumbnail rendering
type Client struct {
	cfg  *config.ConversionConfiguration
	http *http.Client
	log  *zap.Logger
}

// NewClient builds the conversion client, a disabled configuration
// yields a client that refuses submissions
func NewClient(cfg *config.ConversionConfiguration, log *zap.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Second * 30},
		log:  log,
	}
}

// Enabled reports whether submissions will be attempted
func (c *Client) Enabled() bool {
	return c.cfg != nil && c.cfg.Enable
}

// Submit hands a deck to the conversion service
func (c *Client) Submit(ctx context.Context, req *Request) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.cfg.Endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	res, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.log.Warn("conversion service rejected submission",
			zap.Int("deck_id", req.DeckID),
			zap.Int("status", res.StatusCode))
		return fmt.Errorf("conversion service returned status %d", res.StatusCode)
	}
	return nil
}

// VerifyWebhook checks the hmac signature over the raw webhook body and
// decodes the result on success
func (c *Client) VerifyWebhook(body []byte, signature string) (*Result, error) {
	mac := hmac.New(sha256.New, []byte(c.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrBadSignature
	}
	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
