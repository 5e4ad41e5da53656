package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/events"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminStore struct {
	admins     map[string]*tables.AdminTable
	lastSignin map[uuid.UUID]bool
}

func (f *fakeAdminStore) AdminByEmail(_ context.Context, email string) (*tables.AdminTable, error) {
	admin, ok := f.admins[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return admin, nil
}

func (f *fakeAdminStore) SetAdminLastSignIn(_ context.Context, id uuid.UUID) error {
	if f.lastSignin == nil {
		f.lastSignin = map[uuid.UUID]bool{}
	}
	f.lastSignin[id] = true
	return nil
}

func testIssuer(t *testing.T) *Issuer {
	t.Helper()
	return NewIssuer(zaptest.NewLogger(t), &config.JWTConfiguration{
		Algorithm:      "HS256",
		Issuer:         "stagepass",
		Audience:       []string{"stagepass"},
		Expiry:         time.Hour,
		HMACSigningKey: "this-is-a-test-secret-of-decent-length",
	})
}

func testSignIn(t *testing.T, store AdminStore) *SignInService {
	t.Helper()
	log := zaptest.NewLogger(t)
	return NewSignInService(store, log, events.NewDispatcher(log), testIssuer(t))
}

func TestSignInReturnsTokenWithTenantClaim(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	assert.NoError(t, err)
	admin := &tables.AdminTable{
		ID:           uuid.New(),
		TenantID:     42,
		Email:        "crew@agency.example.com",
		PasswordHash: hash,
	}
	store := &fakeAdminStore{admins: map[string]*tables.AdminTable{admin.Email: admin}}
	service := testSignIn(t, store)

	signed, err := service.SignIn(context.Background(), admin.Email, "hunter22")
	assert.NoError(t, err)
	assert.Equal(t, 42, signed.TenantID)
	assert.True(t, store.lastSignin[admin.ID])

	parsed, err := jwt.Parse([]byte(signed.Token), jwt.WithVerify(false))
	assert.NoError(t, err)
	tenant, ok := parsed.Get(ClaimTenantID)
	assert.True(t, ok)
	assert.EqualValues(t, 42, tenant)
	assert.Equal(t, admin.ID.String(), parsed.Subject())
}

func TestSignInWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	admin := &tables.AdminTable{
		ID:           uuid.New(),
		TenantID:     1,
		Email:        "crew@agency.example.com",
		PasswordHash: hash,
	}
	store := &fakeAdminStore{admins: map[string]*tables.AdminTable{admin.Email: admin}}
	service := testSignIn(t, store)

	_, err := service.SignIn(context.Background(), admin.Email, "not-hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	service := testSignIn(t, &fakeAdminStore{admins: map[string]*tables.AdminTable{}})
	_, err := service.SignIn(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHashPasswordRoundtrips(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("hunter22")))
}
