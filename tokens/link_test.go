package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessURLCarriesSlugAndToken(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	links := NewLinks(store, "https://stagepass.example.com")

	link, err := links.AccessURL(context.Background(), 1, row.ID)
	assert.NoError(t, err)
	assert.Equal(t, "https://stagepass.example.com/events/gophercon-2026?token=AAAAAAAAAAAAAAAAAAAAA", link)
}

func TestAccessURLRefusesRevokedToken(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	now := time.Now().UTC()
	row.RevokedAt = &now
	links := NewLinks(store, "https://stagepass.example.com")

	_, err := links.AccessURL(context.Background(), 1, row.ID)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

func TestAccessURLForExpiredTokenStillWorks(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(-time.Hour))
	links := NewLinks(store, "https://stagepass.example.com")

	link, err := links.AccessURL(context.Background(), 1, row.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, link)
}

func TestAccessURLUnknownTokenNotFound(t *testing.T) {
	links := NewLinks(newFakeStore(), "https://stagepass.example.com")
	_, err := links.AccessURL(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccessURLTenantScoped(t *testing.T) {
	store := newFakeStore()
	store.addEvent(2, 10, "private", "not-yours")
	row := store.addToken(2, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	links := NewLinks(store, "https://stagepass.example.com")

	_, err := links.AccessURL(context.Background(), 1, row.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQRCodeRendersPNG(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	links := NewLinks(store, "https://stagepass.example.com")

	png, err := links.QRCode(context.Background(), 1, row.ID)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestQRCodeRefusesRevokedToken(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	now := time.Now().UTC()
	row.RevokedAt = &now
	links := NewLinks(store, "https://stagepass.example.com")

	_, err := links.QRCode(context.Background(), 1, row.ID)
	assert.ErrorIs(t, err, ErrRevokedToken)
}
