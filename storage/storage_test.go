package storage

import (
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func testStore(t *testing.T) *FileSystemStore {
	t.Helper()
	store, err := NewFileSystemStore(t.TempDir(), zaptest.NewLogger(t))
	assert.NoError(t, err)
	return store
}

func TestPutOpenRoundtrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	written, err := store.Put(ctx, "1/events/10/decks/slides.pdf", strings.NewReader("%PDF-1.7"))
	assert.NoError(t, err)
	assert.EqualValues(t, 8, written)

	r, err := store.Open(ctx, "1/events/10/decks/slides.pdf")
	assert.NoError(t, err)
	defer r.Close()
	content, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(content))
}

func TestOpenMissingObject(t *testing.T) {
	store := testStore(t)
	_, err := store.Open(context.Background(), "1/nope.pdf")
	assert.ErrorIs(t, err, ErrNoSuchObject)
}

func TestDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Put(ctx, "1/photo.jpg", strings.NewReader("jpeg"))
	assert.NoError(t, err)
	assert.NoError(t, store.Delete(ctx, "1/photo.jpg"))
	assert.ErrorIs(t, store.Delete(ctx, "1/photo.jpg"), ErrNoSuchObject)
}

func TestTraversalKeysRefused(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "../escape", "a/../../escape", "/.."} {
		_, err := store.Put(ctx, key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestPresignedURLVerifies(t *testing.T) {
	signer := NewSigner("secret", time.Minute)
	link := signer.PresignedURL("https://assets.example.com", "1/decks/slides.pdf")
	assert.Contains(t, link, "https://assets.example.com/1/decks/slides.pdf?")

	parts := strings.SplitN(link, "?", 2)
	values := map[string]string{}
	for _, kv := range strings.Split(parts[1], "&") {
		pair := strings.SplitN(kv, "=", 2)
		values[pair[0]] = pair[1]
	}
	assert.NoError(t, signer.Verify("1/decks/slides.pdf", values["exp"], values["sig"]))
}

func TestPresignedURLRejectsTampering(t *testing.T) {
	signer := NewSigner("secret", time.Minute)
	exp := time.Now().UTC().Add(time.Minute).Unix()
	sig := signer.mac("1/decks/slides.pdf", exp)

	err := signer.Verify("1/decks/other.pdf", "9999999999", sig)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	other := NewSigner("other-secret", time.Minute)
	err = other.Verify("1/decks/slides.pdf", "9999999999", sig)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestPresignedURLExpires(t *testing.T) {
	signer := NewSigner("secret", time.Minute)
	exp := time.Now().UTC().Add(-time.Second).Unix()
	sig := signer.mac("1/decks/slides.pdf", exp)
	err := signer.Verify("1/decks/slides.pdf", strconv.FormatInt(exp, 10), sig)
	assert.ErrorIs(t, err, ErrLinkExpired)
}
