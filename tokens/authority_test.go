package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/events"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeStore struct {
	events       map[int]*tables.EventTable
	tokens       map[int]*tables.AccessTokenTable
	nextID       int
	lookups      int
	collisions   int
	usageErr     error
	insertedToks []string
	queryFilter  func(*tables.AccessTokenTable) bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: map[int]*tables.EventTable{},
		tokens: map[int]*tables.AccessTokenTable{},
		nextID: 1,
	}
}

func (f *fakeStore) addEvent(tenantID int, id int, visibility string, slug string) {
	f.events[id] = &tables.EventTable{
		ID:         id,
		TenantID:   tenantID,
		Slug:       slug,
		Visibility: visibility,
	}
}

func (f *fakeStore) addToken(tenantID, eventID int, token string, expires time.Time) *tables.AccessTokenTable {
	row := &tables.AccessTokenTable{
		ID:        f.nextID,
		TenantID:  tenantID,
		EventID:   eventID,
		Token:     token,
		TokenType: TypeParticipant,
		ExpiresAt: expires,
		CreatedAt: time.Now().UTC(),
	}
	f.tokens[row.ID] = row
	f.nextID++
	return row
}

func (f *fakeStore) Event(_ context.Context, tenantID int, id int) (*tables.EventTable, error) {
	ev, ok := f.events[id]
	if !ok || ev.TenantID != tenantID {
		return nil, db.ErrNotFound
	}
	return ev, nil
}

func (f *fakeStore) InsertAccessToken(_ context.Context, tenantID int, eventID int, token string, tokenType string, expires time.Time) (int, error) {
	if f.collisions > 0 {
		f.collisions--
		return 0, db.ErrAlreadyExists
	}
	for _, row := range f.tokens {
		if row.Token == token {
			return 0, db.ErrAlreadyExists
		}
	}
	row := &tables.AccessTokenTable{
		ID:        f.nextID,
		TenantID:  tenantID,
		EventID:   eventID,
		Token:     token,
		TokenType: tokenType,
		ExpiresAt: expires,
		CreatedAt: time.Now().UTC(),
	}
	f.tokens[row.ID] = row
	f.nextID++
	f.insertedToks = append(f.insertedToks, token)
	return row.ID, nil
}

func (f *fakeStore) AccessTokenByToken(_ context.Context, token string) (*tables.AccessTokenTable, error) {
	f.lookups++
	for _, row := range f.tokens {
		if row.Token == token {
			return row, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) AccessTokenByID(_ context.Context, tenantID int, id int) (*tables.AccessTokenTable, error) {
	row, ok := f.tokens[id]
	if !ok || row.TenantID != tenantID {
		return nil, db.ErrNotFound
	}
	return row, nil
}

func (f *fakeStore) AccessTokens(_ context.Context, tenantID int, eventID int, _ db.ListOptions) ([]*tables.AccessTokenTable, error) {
	var rows []*tables.AccessTokenTable
	for i := 1; i < f.nextID; i++ {
		row, ok := f.tokens[i]
		if !ok || row.TenantID != tenantID || row.EventID != eventID {
			continue
		}
		if f.queryFilter != nil && !f.queryFilter(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeStore) AccessTokenStatusTotals(_ context.Context, tenantID int, eventID int, now time.Time) (*db.TokenStatusTotals, error) {
	t := &db.TokenStatusTotals{}
	for _, row := range f.tokens {
		if row.TenantID != tenantID || row.EventID != eventID {
			continue
		}
		switch {
		case row.RevokedAt != nil:
			t.Revoked++
		case !row.ExpiresAt.After(now):
			t.Expired++
		default:
			t.Active++
		}
	}
	return t, nil
}

func (f *fakeStore) RevokeAccessToken(_ context.Context, tenantID int, id int, revokedBy uuid.UUID) (bool, error) {
	row, ok := f.tokens[id]
	if !ok || row.TenantID != tenantID || row.RevokedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	row.RevokedAt = &now
	row.RevokedBy = &revokedBy
	return true, nil
}

func (f *fakeStore) RecordAccessTokenUsage(_ context.Context, id int) error {
	if f.usageErr != nil {
		return f.usageErr
	}
	row, ok := f.tokens[id]
	if !ok {
		return db.ErrNotFound
	}
	now := time.Now().UTC()
	row.UseCount++
	row.LastUsedAt = &now
	return nil
}

type countingListener struct {
	name  events.EventName
	calls int
}

func (c *countingListener) ForEvent() events.EventName { return c.name }
func (c *countingListener) Handle(context.Context, events.Event) error {
	c.calls++
	return nil
}

func testAuthority(t *testing.T, store Store) *Authority {
	t.Helper()
	log := zaptest.NewLogger(t)
	return NewAuthority(store, log, events.NewDispatcher(log), time.Hour*72)
}

func TestIssueReturnsTokenForPrivateEvent(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	authority := testAuthority(t, store)

	dto, err := authority.Issue(context.Background(), 1, 10, TypeParticipant, nil, uuid.New())
	assert.NoError(t, err)
	assert.Len(t, dto.Token, 21)
	assert.Equal(t, TypeParticipant, dto.TokenType)
	assert.Equal(t, StatusActive, dto.Status)
	assert.Equal(t, 10, dto.EventID)
	assert.Zero(t, dto.UseCount)
}

func TestIssueDefaultsExpiry(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	authority := testAuthority(t, store)

	dto, err := authority.Issue(context.Background(), 1, 10, TypeOrganizer, nil, uuid.New())
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour*72), dto.ExpiresAt, time.Minute)
}

func TestIssueRejectsPublicEvent(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "public", "open-day")
	authority := testAuthority(t, store)

	_, err := authority.Issue(context.Background(), 1, 10, TypeParticipant, nil, uuid.New())
	assert.ErrorIs(t, err, ErrPublicEvent)
}

func TestIssueRejectsPastExpiry(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	authority := testAuthority(t, store)

	past := time.Now().UTC().Add(-time.Hour)
	_, err := authority.Issue(context.Background(), 1, 10, TypeParticipant, &past, uuid.New())
	assert.ErrorIs(t, err, ErrExpiryInPast)
}

func TestIssueRejectsUnknownTokenType(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	authority := testAuthority(t, store)

	_, err := authority.Issue(context.Background(), 1, 10, "speaker", nil, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestIssueUnknownEventNotFound(t *testing.T) {
	authority := testAuthority(t, newFakeStore())
	_, err := authority.Issue(context.Background(), 1, 99, TypeParticipant, nil, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueEventOfOtherTenantNotFound(t *testing.T) {
	store := newFakeStore()
	store.addEvent(2, 10, "private", "not-yours")
	authority := testAuthority(t, store)

	_, err := authority.Issue(context.Background(), 1, 10, TypeParticipant, nil, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueRetriesOnCollision(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	store.collisions = 3
	authority := testAuthority(t, store)

	dto, err := authority.Issue(context.Background(), 1, 10, TypeParticipant, nil, uuid.New())
	assert.NoError(t, err)
	assert.Len(t, dto.Token, 21)
	assert.Len(t, store.insertedToks, 1)
}

func TestValidateMalformedTokenSkipsLookup(t *testing.T) {
	store := newFakeStore()
	authority := testAuthority(t, store)

	res, err := authority.Validate(context.Background(), "too-short", 10)
	assert.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Token must be exactly 21 characters", res.Reason)
	assert.Zero(t, store.lookups)
}

func TestValidateUnknownToken(t *testing.T) {
	authority := testAuthority(t, newFakeStore())

	res, err := authority.Validate(context.Background(), "AAAAAAAAAAAAAAAAAAAAA", 10)
	assert.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Token not found", res.Reason)
}

func TestValidateTokenOfOtherEvent(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	authority := testAuthority(t, store)

	res, err := authority.Validate(context.Background(), row.Token, 11)
	assert.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Token does not belong to this event", res.Reason)
	assert.Zero(t, row.UseCount)
}

func TestValidateRevokedToken(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	revoked := time.Now().UTC().Add(-time.Minute)
	row.RevokedAt = &revoked
	authority := testAuthority(t, store)

	res, err := authority.Validate(context.Background(), row.Token, 10)
	assert.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Token has been revoked", res.Reason)
	assert.Equal(t, revoked, *res.RevokedAt)
}

func TestValidateExpiredToken(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(-time.Second))
	authority := testAuthority(t, store)

	res, err := authority.Validate(context.Background(), row.Token, 10)
	assert.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Token expired", res.Reason)
	assert.Zero(t, row.UseCount)
}

func TestValidateCountsUsage(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	authority := testAuthority(t, store)

	for i := 0; i < 3; i++ {
		res, err := authority.Validate(context.Background(), row.Token, 10)
		assert.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, row.ID, res.TokenID)
	}
	assert.Equal(t, 3, row.UseCount)
	assert.NotNil(t, row.LastUsedAt)
}

func TestValidateSurvivesTelemetryFailure(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	store.usageErr = errors.New("disk on fire")
	authority := testAuthority(t, store)

	res, err := authority.Validate(context.Background(), row.Token, 10)
	assert.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Zero(t, row.UseCount)
}

func TestRevokeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	log := zaptest.NewLogger(t)
	dispatcher := events.NewDispatcher(log)
	listener := &countingListener{name: "access_token_revoked"}
	dispatcher.Register(listener)
	authority := NewAuthority(store, log, dispatcher, time.Hour)

	first, err := authority.Revoke(context.Background(), 1, row.ID, uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, StatusRevoked, first.Status)
	assert.NotNil(t, first.RevokedAt)

	second, err := authority.Revoke(context.Background(), 1, row.ID, uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, StatusRevoked, second.Status)
	assert.Equal(t, first.RevokedAt, second.RevokedAt)
	assert.Equal(t, 1, listener.calls)
}

func TestRevokeUnknownTokenNotFound(t *testing.T) {
	authority := testAuthority(t, newFakeStore())
	_, err := authority.Revoke(context.Background(), 1, 99, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevokeTokenOfOtherTenantNotFound(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(2, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	authority := testAuthority(t, store)

	_, err := authority.Revoke(context.Background(), 1, row.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevokedTokenStaysInvalidAfterExpiryExtension(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	authority := testAuthority(t, store)

	_, err := authority.Revoke(context.Background(), 1, row.ID, uuid.New())
	assert.NoError(t, err)
	row.ExpiresAt = time.Now().UTC().Add(time.Hour * 24)

	res, err := authority.Validate(context.Background(), row.Token, 10)
	assert.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Token has been revoked", res.Reason)
}

func TestListTalliesStatuses(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	store.addToken(1, 10, "BBBBBBBBBBBBBBBBBBBBB", time.Now().UTC().Add(-time.Hour))
	revoked := store.addToken(1, 10, "CCCCCCCCCCCCCCCCCCCCC", time.Now().UTC().Add(time.Hour))
	now := time.Now().UTC()
	revoked.RevokedAt = &now
	store.addToken(1, 11, "DDDDDDDDDDDDDDDDDDDDD", time.Now().UTC().Add(time.Hour))
	authority := testAuthority(t, store)

	list, err := authority.List(context.Background(), 1, 10, "", db.ListOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 1, list.Active)
	assert.Equal(t, 1, list.Revoked)
	assert.Equal(t, 1, list.Expired)
	assert.Len(t, list.Tokens, 3)
}

func TestListStatusFilterKeepsFullTallies(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	store.addToken(1, 10, "BBBBBBBBBBBBBBBBBBBBB", time.Now().UTC().Add(-time.Hour))
	revoked := store.addToken(1, 10, "CCCCCCCCCCCCCCCCCCCCC", time.Now().UTC().Add(time.Hour))
	now := time.Now().UTC()
	revoked.RevokedAt = &now
	authority := testAuthority(t, store)

	list, err := authority.List(context.Background(), 1, 10, StatusActive, db.ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, list.Tokens, 1)
	assert.Equal(t, StatusActive, list.Tokens[0].Status)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 1, list.Active)
	assert.Equal(t, 1, list.Revoked)
	assert.Equal(t, 1, list.Expired)
}

func TestListQueryFilterKeepsFullTallies(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	store.addToken(1, 10, "BBBBBBBBBBBBBBBBBBBBB", time.Now().UTC().Add(-time.Hour))
	store.queryFilter = func(row *tables.AccessTokenTable) bool {
		return row.Token == "AAAAAAAAAAAAAAAAAAAAA"
	}
	authority := testAuthority(t, store)

	list, err := authority.List(context.Background(), 1, 10, "", db.ListOptions{Query: "token==AAAAAAAAAAAAAAAAAAAAA"})
	assert.NoError(t, err)
	assert.Len(t, list.Tokens, 1)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 1, list.Active)
	assert.Equal(t, 1, list.Expired)
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	store := newFakeStore()
	store.addEvent(1, 10, "private", "gophercon-2026")
	authority := testAuthority(t, store)

	_, err := authority.List(context.Background(), 1, 10, "burnt", db.ListOptions{})
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)
}

func TestListUnknownEventNotFound(t *testing.T) {
	authority := testAuthority(t, newFakeStore())
	_, err := authority.List(context.Background(), 1, 99, "", db.ListOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateWithoutEventScope(t *testing.T) {
	store := newFakeStore()
	row := store.addToken(1, 10, "AAAAAAAAAAAAAAAAAAAAA", time.Now().UTC().Add(time.Hour))
	authority := testAuthority(t, store)

	res, err := authority.Validate(context.Background(), row.Token, 0)
	assert.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, row.ID, res.TokenID)
	assert.Equal(t, 1, row.UseCount)
}

func TestRevocationOutranksExpiry(t *testing.T) {
	now := time.Now().UTC()
	revoked := now.Add(-time.Hour)
	row := &tables.AccessTokenTable{
		ExpiresAt: now.Add(-time.Minute),
		RevokedAt: &revoked,
	}
	assert.Equal(t, StatusRevoked, statusOf(row, now))
}
