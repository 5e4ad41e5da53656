package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrSignatureMismatch indicates a tampered or foreign signature
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrLinkExpired indicates a presigned url past its expiry
	ErrLinkExpired = errors.New("link expired")
)

// Signer produces and checks presigned asset urls. The signature covers
// the object key and the expiry timestamp, nothing else.
type Signer struct {
	key    []byte
	expiry time.Duration
}

// NewSigner builds a signer with the shared secret and default lifetime
func NewSigner(key string, expiry time.Duration) *Signer {
	if expiry <= 0 {
		expiry = time.Minute * 15
	}
	return &Signer{key: []byte(key), expiry: expiry}
}

func (s *Signer) mac(key string, exp int64) string {
	h := hmac.New(sha256.New, s.key)
	fmt.Fprintf(h, "%s\n%d", key, exp)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// PresignedURL returns a time limited url for the given object key,
// rooted at the public asset base url
func (s *Signer) PresignedURL(baseURL string, key string) string {
	exp := time.Now().UTC().Add(s.expiry).Unix()
	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", s.mac(key, exp))
	return fmt.Sprintf("%s/%s?%s", baseURL, key, q.Encode())
}

// Verify checks signature and expiry for an incoming asset request
func (s *Signer) Verify(key string, expRaw string, sig string) error {
	exp, err := strconv.ParseInt(expRaw, 10, 64)
	if err != nil {
		return ErrSignatureMismatch
	}
	expected := s.mac(key, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrSignatureMismatch
	}
	if time.Now().UTC().Unix() > exp {
		return ErrLinkExpired
	}
	return nil
}
