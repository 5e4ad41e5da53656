package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stagepass/stagepass/db/tables"
)

// InsertAdmin creates an agency administrator account
func (d *DataStore) InsertAdmin(
	ctx context.Context,
	tenantID int,
	email string,
	passwordHash []byte,
) (uuid.UUID, error) {
	exists, err := d.exists(ctx, "admins", sq.Eq{"email": email})
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrAlreadyExists
	}
	id := uuid.New()
	insert := sq.Insert("admins").
		Columns("id", "tenant_id", "email", "password_hash", "created_at").
		Values(id, tenantID, email, passwordHash, time.Now().UTC())
	_, err = d.insertStatement(ctx, insert, nil)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// AdminByEmail resolves an administrator for signin, email addresses are
// unique across tenants
func (d *DataStore) AdminByEmail(ctx context.Context, email string) (*tables.AdminTable, error) {
	s := sq.Select("id", "tenant_id", "email", "password_hash", "created_at", "last_signin_at").
		From("admins").
		Where(sq.Eq{"email": email})
	var row tables.AdminTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) Admin(ctx context.Context, tenantID int, id uuid.UUID) (*tables.AdminTable, error) {
	s := sq.Select("id", "tenant_id", "email", "password_hash", "created_at", "last_signin_at").
		From("admins").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	var row tables.AdminTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) SetAdminLastSignIn(ctx context.Context, id uuid.UUID) error {
	q := sq.Update("admins").
		Set("last_signin_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	_, err := d.updateStatement(ctx, q, nil)
	return err
}
