package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stagepass/stagepass/db/tables"
	"go.uber.org/zap"
)

// InsertTenant creates a new agency account with default branding
func (d *DataStore) InsertTenant(
	ctx context.Context,
	slug string,
	name string,
	plan string,
) (int, error) {
	exists, err := d.exists(ctx, "tenants", sq.Eq{"slug": slug})
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrAlreadyExists
	}
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	insert := sq.Insert("tenants").
		Columns("slug", "name", "plan", "created_at").
		Values(slug, name, plan, time.Now().UTC()).
		Suffix("RETURNING id")
	var id int
	err = d.returningInsertStatement(ctx, &id, insert, tx)
	if err != nil {
		rerr := tx.Rollback()
		if rerr != nil {
			d.log.Error("couldnt rollback", zap.Error(rerr))
		}
		return 0, err
	}
	branding := sq.Insert("tenant_branding").
		Columns("tenant_id", "primary_color", "accent_color").
		Values(id, "#1a1a2e", "#e94560")
	_, err = d.insertStatement(ctx, branding, tx)
	if err != nil {
		rerr := tx.Rollback()
		if rerr != nil {
			d.log.Error("couldnt rollback", zap.Error(rerr))
		}
		return 0, err
	}
	return id, tx.Commit()
}

func (d *DataStore) Tenant(ctx context.Context, id int) (*tables.TenantTable, error) {
	s := sq.Select("id", "slug", "name", "plan", "created_at").
		From("tenants").
		Where(sq.Eq{"id": id})
	var row tables.TenantTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) TenantBySlug(ctx context.Context, slug string) (*tables.TenantTable, error) {
	s := sq.Select("id", "slug", "name", "plan", "created_at").
		From("tenants").
		Where(sq.Eq{"slug": slug})
	var row tables.TenantTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Tenants lists all agencies, used by the CLI only
func (d *DataStore) Tenants(ctx context.Context) ([]*tables.TenantTable, error) {
	s := sq.Select("id", "slug", "name", "plan", "created_at").
		From("tenants").
		OrderBy("id")
	var rows []*tables.TenantTable
	err := d.selectStatement(ctx, &rows, s, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DataStore) UpdateTenantPlan(ctx context.Context, tenantID int, plan string) error {
	q := sq.Update("tenants").
		Set("plan", plan).
		Where(sq.Eq{"id": tenantID})
	rs, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	count, err := rs.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DataStore) Branding(ctx context.Context, tenantID int) (*tables.TenantBrandingTable, error) {
	s := sq.Select("tenant_id", "logo_key", "primary_color", "accent_color", "updated_at").
		From("tenant_branding").
		Where(sq.Eq{"tenant_id": tenantID})
	var row tables.TenantBrandingTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) UpdateBranding(
	ctx context.Context,
	tenantID int,
	logoKey *string,
	primaryColor string,
	accentColor string,
) error {
	q := sq.Update("tenant_branding").
		Set("primary_color", primaryColor).
		Set("accent_color", accentColor).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"tenant_id": tenantID})
	if logoKey != nil {
		q = q.Set("logo_key", *logoKey)
	}
	rs, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	count, err := rs.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
