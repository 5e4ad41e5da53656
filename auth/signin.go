package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/events/event"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords,
// signin never tells which one it was
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminStore is the persistence surface of the signin service
type AdminStore interface {
	AdminByEmail(ctx context.Context, email string) (*tables.AdminTable, error)
	SetAdminLastSignIn(ctx context.Context, id uuid.UUID) error
}

// SignInService authenticates agency administrators and hands out
// signed manage api tokens
type SignInService struct {
	store      AdminStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
	issuer     *Issuer
}

// NewSignInService assembles the signin service
func NewSignInService(
	store AdminStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
	issuer *Issuer,
) *SignInService {
	return &SignInService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
		issuer:     issuer,
	}
}

// SignedInAdmin is the outcome of a successful signin
type SignedInAdmin struct {
	AdminID  uuid.UUID
	TenantID int
	Email    string
	Token    string
}

// SignIn verifies the password and returns a signed bearer token
func (s *SignInService) SignIn(ctx context.Context, email string, password string) (*SignedInAdmin, error) {
	admin, err := s.store.AdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issuer.IssueAdminToken(admin.ID, admin.Email, admin.TenantID)
	if err != nil {
		return nil, err
	}
	signed, err := s.issuer.Sign(token)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetAdminLastSignIn(ctx, admin.ID); err != nil {
		s.log.Warn("could not update last signin", zap.String("admin_id", admin.ID.String()), zap.Error(err))
	}
	s.dispatcher.Dispatch(ctx, &event.AdminSignedIn{
		TenantID: admin.TenantID,
		AdminID:  admin.ID,
	})
	return &SignedInAdmin{
		AdminID:  admin.ID,
		TenantID: admin.TenantID,
		Email:    admin.Email,
		Token:    string(signed),
	}, nil
}

// HashPassword is used by account provisioning, bcrypt with default cost
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
