package tokens

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
	"github.com/stagepass/stagepass/db"
)

// ErrRevokedToken indicates a link or qr request for a revoked token
var ErrRevokedToken = errors.New("token has been revoked")

const qrSize = 256

// Links builds shareable deep links and qr codes for access tokens.
// Links for revoked tokens are refused, expired tokens still get their
// link since extending the expiry reactivates them.
type Links struct {
	store   Store
	baseURL string
}

// NewLinks returns a link builder rooted at the public frontend url
func NewLinks(store Store, baseURL string) *Links {
	return &Links{store: store, baseURL: baseURL}
}

// AccessURL returns the deep link carrying the token into the event page
func (l *Links) AccessURL(ctx context.Context, tenantID int, tokenID int) (string, error) {
	row, err := l.store.AccessTokenByID(ctx, tenantID, tokenID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if row.RevokedAt != nil {
		return "", ErrRevokedToken
	}
	ev, err := l.store.Event(ctx, tenantID, row.EventID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/events/%s?token=%s",
		l.baseURL,
		url.PathEscape(ev.Slug),
		url.QueryEscape(row.Token)), nil
}

// QRCode renders the access url as a png qr code
func (l *Links) QRCode(ctx context.Context, tenantID int, tokenID int) ([]byte, error) {
	link, err := l.AccessURL(ctx, tenantID, tokenID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, err
	}
	return png, nil
}
