package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/events/event"
	"github.com/stagepass/stagepass/generator"
	"github.com/stagepass/stagepass/sanitize"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates the token or event does not exist within the tenant
	ErrNotFound = errors.New("not found")
	// ErrPublicEvent indicates an issue attempt against a public event
	ErrPublicEvent = errors.New("tokens can only be generated for private events")
	// ErrExpiryInPast indicates a requested expiry that already passed
	ErrExpiryInPast = errors.New("expiration date must be in the future")
	// ErrInvalidTokenType indicates an unknown token type
	ErrInvalidTokenType = errors.New("invalid token type")
	// ErrTokenGenExhausted indicates repeated collisions on generated tokens
	ErrTokenGenExhausted = errors.New("could not generate a unique token")
	// ErrInvalidStatusFilter indicates a listing filter outside
	// active, revoked and expired
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// used as a circuit breaker for token generation collisions
const maxIterationCycles = 100

// Store is the persistence surface the authority works against
type Store interface {
	Event(ctx context.Context, tenantID int, id int) (*tables.EventTable, error)
	InsertAccessToken(ctx context.Context, tenantID int, eventID int, token string, tokenType string, expires time.Time) (int, error)
	AccessTokenByToken(ctx context.Context, token string) (*tables.AccessTokenTable, error)
	AccessTokenByID(ctx context.Context, tenantID int, id int) (*tables.AccessTokenTable, error)
	AccessTokens(ctx context.Context, tenantID int, eventID int, opts db.ListOptions) ([]*tables.AccessTokenTable, error)
	AccessTokenStatusTotals(ctx context.Context, tenantID int, eventID int, now time.Time) (*db.TokenStatusTotals, error)
	RevokeAccessToken(ctx context.Context, tenantID int, id int, revokedBy uuid.UUID) (bool, error)
	RecordAccessTokenUsage(ctx context.Context, id int) error
}

// Authority issues, validates and revokes the opaque access tokens
// gating private events
type Authority struct {
	store         Store
	log           *zap.Logger
	dispatcher    *events.Dispatcher
	defaultExpiry time.Duration
}

// NewAuthority returns a ready to use token authority
func NewAuthority(
	store Store,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
	defaultExpiry time.Duration,
) *Authority {
	return &Authority{
		store:         store,
		log:           log,
		dispatcher:    dispatcher,
		defaultExpiry: defaultExpiry,
	}
}

// Issue mints a new access token for a private event within the callers
// tenant. A nil expiry falls back to the configured default lifetime.
func (a *Authority) Issue(
	ctx context.Context,
	tenantID int,
	eventID int,
	tokenType string,
	expiresAt *time.Time,
	issuedBy uuid.UUID,
) (*AccessTokenDTO, error) {
	if tokenType != TypeOrganizer && tokenType != TypeParticipant {
		return nil, ErrInvalidTokenType
	}
	ev, err := a.store.Event(ctx, tenantID, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ev.Visibility != "private" {
		return nil, ErrPublicEvent
	}
	expiry := time.Now().UTC().Add(a.defaultExpiry)
	if expiresAt != nil {
		if !expiresAt.After(time.Now().UTC()) {
			return nil, ErrExpiryInPast
		}
		expiry = expiresAt.UTC()
	}
	gen := generator.New()
	var id int
	var token string
	for i := 0; i < maxIterationCycles; i++ {
		token = string(gen.CreateAccessCode())
		id, err = a.store.InsertAccessToken(ctx, tenantID, eventID, token, tokenType, expiry)
		if err == nil {
			break
		}
		if !errors.Is(err, db.ErrAlreadyExists) {
			return nil, err
		}
		if i == maxIterationCycles-1 {
			a.log.Error("token generation exhausted retry budget",
				zap.Int("event_id", eventID))
			return nil, ErrTokenGenExhausted
		}
	}
	a.log.Info("issued access token",
		zap.Int("token_id", id),
		zap.Int("event_id", eventID),
		zap.String("token_type", tokenType),
		sanitize.TokenPreview("token", token))
	a.dispatcher.Dispatch(ctx, &event.AccessTokenIssued{
		TenantID:  tenantID,
		EventID:   eventID,
		TokenID:   id,
		TokenType: tokenType,
		ExpiresAt: expiry,
		IssuedBy:  issuedBy,
	})
	row, err := a.store.AccessTokenByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return dtoFromRow(row, time.Now().UTC()), nil
}

// Validate checks a presented token, optionally scoped to an event.
// Checks run from cheapest to most specific: length, existence, event
// scope, revocation, expiry. An eventID of 0 skips the scope check and
// judges the token on its own. Only a token passing all checks counts
// as a use.
func (a *Authority) Validate(
	ctx context.Context,
	presented string,
	eventID int,
) (*ValidationResult, error) {
	if len(presented) != generator.AccessCodeLength {
		return &ValidationResult{Valid: false, Reason: ReasonMalformed}, nil
	}
	row, err := a.store.AccessTokenByToken(ctx, presented)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &ValidationResult{Valid: false, Reason: ReasonNotFound}, nil
		}
		return nil, err
	}
	if eventID != 0 && row.EventID != eventID {
		return &ValidationResult{Valid: false, Reason: ReasonWrongEvent}, nil
	}
	if row.RevokedAt != nil {
		return &ValidationResult{
			Valid:     false,
			Reason:    ReasonRevoked,
			RevokedAt: row.RevokedAt,
		}, nil
	}
	now := time.Now().UTC()
	if !row.ExpiresAt.After(now) {
		return &ValidationResult{Valid: false, Reason: ReasonExpired}, nil
	}
	// telemetry is best effort, a failed counter update never turns a
	// valid token away
	if err := a.store.RecordAccessTokenUsage(ctx, row.ID); err != nil {
		a.log.Warn("could not record token usage",
			zap.Int("token_id", row.ID),
			zap.Error(err))
	}
	expires := row.ExpiresAt
	return &ValidationResult{
		Valid:     true,
		TokenID:   row.ID,
		TokenType: row.TokenType,
		ExpiresAt: &expires,
	}, nil
}

// Revoke marks a token revoked. Revoking an already revoked token is a
// no op that reports the existing revocation, so retried requests cannot
// fail halfway.
func (a *Authority) Revoke(
	ctx context.Context,
	tenantID int,
	tokenID int,
	revokedBy uuid.UUID,
) (*AccessTokenDTO, error) {
	row, err := a.store.AccessTokenByID(ctx, tenantID, tokenID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	won, err := a.store.RevokeAccessToken(ctx, tenantID, tokenID, revokedBy)
	if err != nil {
		return nil, err
	}
	if won {
		a.log.Info("revoked access token",
			zap.Int("token_id", tokenID),
			zap.Int("event_id", row.EventID))
		a.dispatcher.Dispatch(ctx, &event.AccessTokenRevoked{
			TenantID:  tenantID,
			EventID:   row.EventID,
			TokenID:   tokenID,
			RevokedBy: revokedBy,
		})
	}
	row, err = a.store.AccessTokenByID(ctx, tenantID, tokenID)
	if err != nil {
		return nil, err
	}
	return dtoFromRow(row, time.Now().UTC()), nil
}

// List returns the tokens of an event within the callers tenant together
// with status tallies. The tallies cover every token of the event, the
// status and query filters narrow the listing only.
func (a *Authority) List(
	ctx context.Context,
	tenantID int,
	eventID int,
	status string,
	opts db.ListOptions,
) (*TokenList, error) {
	if status != "" && status != StatusActive &&
		status != StatusRevoked && status != StatusExpired {
		return nil, ErrInvalidStatusFilter
	}
	_, err := a.store.Event(ctx, tenantID, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	now := time.Now().UTC()
	totals, err := a.store.AccessTokenStatusTotals(ctx, tenantID, eventID, now)
	if err != nil {
		return nil, err
	}
	rows, err := a.store.AccessTokens(ctx, tenantID, eventID, opts)
	if err != nil {
		return nil, err
	}
	list := &TokenList{
		Tokens:  make([]*AccessTokenDTO, 0, len(rows)),
		Total:   totals.Active + totals.Revoked + totals.Expired,
		Active:  totals.Active,
		Revoked: totals.Revoked,
		Expired: totals.Expired,
	}
	for _, row := range rows {
		dto := dtoFromRow(row, now)
		if status != "" && dto.Status != status {
			continue
		}
		list.Tokens = append(list.Tokens, dto)
	}
	return list, nil
}

// Get resolves a single token within the callers tenant
func (a *Authority) Get(ctx context.Context, tenantID int, tokenID int) (*AccessTokenDTO, error) {
	row, err := a.store.AccessTokenByID(ctx, tenantID, tokenID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dtoFromRow(row, time.Now().UTC()), nil
}

// revocation outranks expiry when both apply
func statusOf(row *tables.AccessTokenTable, now time.Time) string {
	if row.RevokedAt != nil {
		return StatusRevoked
	}
	if !row.ExpiresAt.After(now) {
		return StatusExpired
	}
	return StatusActive
}

func dtoFromRow(row *tables.AccessTokenTable, now time.Time) *AccessTokenDTO {
	return &AccessTokenDTO{
		ID:         row.ID,
		EventID:    row.EventID,
		Token:      row.Token,
		TokenType:  row.TokenType,
		Status:     statusOf(row, now),
		ExpiresAt:  row.ExpiresAt,
		RevokedAt:  row.RevokedAt,
		LastUsedAt: row.LastUsedAt,
		UseCount:   row.UseCount,
		CreatedAt:  row.CreatedAt,
	}
}
