package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stagepass/stagepass/db/tables"
	"go.uber.org/zap"
)

// all access token related things in store

// InsertAccessToken persists a freshly generated access token row.
// Returns ErrAlreadyExists when the token string collides so the caller
// can regenerate.
func (d *DataStore) InsertAccessToken(
	ctx context.Context,
	tenantID int,
	eventID int,
	token string,
	tokenType string,
	expires time.Time,
) (int, error) {
	exists, err := d.exists(
		ctx,
		"access_tokens",
		sq.Eq{"token": token},
	)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrAlreadyExists
	}
	m := map[string]interface{}{
		"tenant_id":  tenantID,
		"event_id":   eventID,
		"token":      token,
		"token_type": tokenType,
		"use_count":  0,
		"expires_at": expires,
		"created_at": time.Now().UTC()}
	insert := sq.Insert("access_tokens").SetMap(m)
	insert = insert.Suffix("RETURNING id")
	var id int
	err = d.returningInsertStatement(ctx, &id, insert, nil)
	if err != nil {
		d.log.Error("could not insert access token", zap.Error(err))
		return 0, err
	}
	return id, nil
}

// AccessTokenByToken looks a token up by its exact string. This is the one
// store method without a tenant predicate: the token string itself is the
// credential and is unique across all tenants.
func (d *DataStore) AccessTokenByToken(
	ctx context.Context,
	token string,
) (*tables.AccessTokenTable, error) {
	s := accessTokenColumns().
		Where(sq.Eq{"token": token}).
		Limit(1)
	var row tables.AccessTokenTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// AccessTokenByID resolves a token within the callers tenant
func (d *DataStore) AccessTokenByID(
	ctx context.Context,
	tenantID int,
	id int,
) (*tables.AccessTokenTable, error) {
	s := accessTokenColumns().
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	var row tables.AccessTokenTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// AccessTokens returns a page of the given events tokens within the
// callers tenant, newest first. Status derivation happens in the
// service layer.
func (d *DataStore) AccessTokens(
	ctx context.Context,
	tenantID int,
	eventID int,
	opts ListOptions,
) ([]*tables.AccessTokenTable, error) {
	q := accessTokenColumns().
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"event_id": eventID}})
	applyWhere, err := d.whereFromAdapater("access_tokens", opts.Query)
	if err != nil {
		return nil, err
	}
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "access_tokens", "created_at DESC", opts)
	if opts.PageSize > 0 {
		page := opts.Page
		if page <= 0 {
			page = 1
		}
		q = q.Offset(uint64((page - 1) * opts.PageSize)).Limit(uint64(opts.PageSize))
	}
	var entities []*tables.AccessTokenTable
	err = d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*tables.AccessTokenTable{}, nil
		}
		return nil, err
	}
	return entities, nil
}

// AccessTokenStatusTotals counts an events tokens per derived status.
// The counts cover every token of the event, listing filters never
// apply here.
func (d *DataStore) AccessTokenStatusTotals(
	ctx context.Context,
	tenantID int,
	eventID int,
	now time.Time,
) (*TokenStatusTotals, error) {
	q := sq.Select().
		Column(sq.Expr("COALESCE(SUM(CASE WHEN revoked_at IS NOT NULL THEN 1 ELSE 0 END), 0)")).
		Column(sq.Expr("COALESCE(SUM(CASE WHEN revoked_at IS NULL AND expires_at <= ? THEN 1 ELSE 0 END), 0)", now)).
		Column(sq.Expr("COALESCE(SUM(CASE WHEN revoked_at IS NULL AND expires_at > ? THEN 1 ELSE 0 END), 0)", now)).
		From("access_tokens").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"event_id": eventID}})
	var t TokenStatusTotals
	err := q.RunWith(d.db).ScanContext(ctx, &t.Revoked, &t.Expired, &t.Active)
	if err != nil {
		d.log.Error("could not count token statuses", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// CountActiveAccessTokens counts the currently usable tokens across the
// whole tenant
func (d *DataStore) CountActiveAccessTokens(
	ctx context.Context,
	tenantID int,
	now time.Time,
) (int, error) {
	var c int
	q := sq.Select("COUNT(*)").
		From("access_tokens").
		Where(sq.And{
			sq.Eq{"tenant_id": tenantID},
			sq.Eq{"revoked_at": nil},
			sq.Expr("expires_at > ?", now)})
	err := q.RunWith(d.db).ScanContext(ctx, &c)
	if err != nil {
		return 0, err
	}
	return c, nil
}

// RevokeAccessToken sets revoked_at and revoked_by if and only if the
// token has not been revoked yet. Returns true when this call won the
// revocation, false when a revocation was already in place (or the token
// does not exist within the tenant, callers disambiguate with a re-read).
func (d *DataStore) RevokeAccessToken(
	ctx context.Context,
	tenantID int,
	id int,
	revokedBy uuid.UUID,
) (bool, error) {
	a := sq.Update("access_tokens").
		Set("revoked_at", time.Now().UTC()).
		Set("revoked_by", revokedBy).
		Where(sq.And{
			sq.Eq{"tenant_id": tenantID},
			sq.Eq{"id": id},
			sq.Eq{"revoked_at": nil}})
	rs, err := d.updateStatement(ctx, a, nil)
	if err != nil {
		return false, err
	}
	count, err := rs.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordAccessTokenUsage bumps the usage telemetry in a single statement,
// the increment is a sql expression so concurrent validations never lose
// an update
func (d *DataStore) RecordAccessTokenUsage(ctx context.Context, id int) error {
	a := sq.Update("access_tokens").
		Set("use_count", sq.Expr("use_count + 1")).
		Set("last_used_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	_, err := d.updateStatement(ctx, a, nil)
	return err
}

func accessTokenColumns() sq.SelectBuilder {
	return sq.Select(
		"id",
		"tenant_id",
		"event_id",
		"token",
		"token_type",
		"expires_at",
		"revoked_at",
		"revoked_by",
		"last_used_at",
		"use_count",
		"created_at").
		From("access_tokens")
}
