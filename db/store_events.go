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

// InsertEvent creates an event. Slugs are globally unique so public deep
// links can address an event without a tenant qualifier.
func (d *DataStore) InsertEvent(
	ctx context.Context,
	tenantID int,
	slug string,
	title string,
	description string,
	visibility string,
	startsAt time.Time,
	endsAt time.Time,
) (int, error) {
	exists, err := d.exists(ctx, "events", sq.Eq{"slug": slug})
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrAlreadyExists
	}
	m := map[string]interface{}{
		"tenant_id":   tenantID,
		"slug":        slug,
		"title":       title,
		"description": description,
		"visibility":  visibility,
		"starts_at":   startsAt,
		"ends_at":     endsAt,
		"created_at":  time.Now().UTC(),
	}
	insert := sq.Insert("events").SetMap(m).Suffix("RETURNING id")
	var id int
	err = d.returningInsertStatement(ctx, &id, insert, nil)
	if err != nil {
		d.log.Error("could not insert event", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (d *DataStore) Event(ctx context.Context, tenantID int, id int) (*tables.EventTable, error) {
	s := eventColumns().Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	var row tables.EventTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// EventBySlug is the public lookup used by deep links, it deliberately has
// no tenant predicate, access to private events is gated by tokens
func (d *DataStore) EventBySlug(ctx context.Context, slug string) (*tables.EventTable, error) {
	s := eventColumns().Where(sq.Eq{"slug": slug})
	var row tables.EventTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) Events(
	ctx context.Context,
	tenantID int,
	opts ListOptions,
) ([]*tables.EventTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}

	var c int
	count := sq.Select("COUNT(*)").From("events").Where(sq.Eq{"tenant_id": tenantID})
	applyWhere, err := d.whereFromAdapater("events", opts.Query)
	if err != nil {
		return nil, 0, err
	}
	count = applyWhere(count)
	err = count.RunWith(d.db).Scan(&c)
	if err != nil {
		return nil, 0, err
	}
	offset := (opts.Page - 1) * opts.PageSize
	if c < int(offset) {
		return []*tables.EventTable{}, c, nil
	}

	var entities []*tables.EventTable
	q := eventColumns().Where(sq.Eq{"tenant_id": tenantID})
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "events", "starts_at DESC", opts)
	q = q.Offset(uint64(offset)).Limit(uint64(opts.PageSize))
	err = d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	return entities, c, nil
}

func (d *DataStore) CountEvents(ctx context.Context, tenantID int) (int, error) {
	var c int
	count := sq.Select("COUNT(*)").From("events").Where(sq.Eq{"tenant_id": tenantID})
	err := count.RunWith(d.db).ScanContext(ctx, &c)
	if err != nil {
		return 0, err
	}
	return c, nil
}

func (d *DataStore) UpdateEvent(
	ctx context.Context,
	tenantID int,
	id int,
	title string,
	description string,
	startsAt time.Time,
	endsAt time.Time,
) error {
	q := sq.Update("events").
		Set("title", title).
		Set("description", description).
		Set("starts_at", startsAt).
		Set("ends_at", endsAt).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
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

func (d *DataStore) SetEventVisibility(
	ctx context.Context,
	tenantID int,
	id int,
	visibility string,
) error {
	q := sq.Update("events").
		Set("visibility", visibility).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
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

func (d *DataStore) SetEventBanner(ctx context.Context, tenantID int, id int, bannerKey string) error {
	q := sq.Update("events").
		Set("banner_key", bannerKey).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
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

// DeleteEvent removes the event and everything hanging off it in one
// transaction, tokens and metrics included
func (d *DataStore) DeleteEvent(ctx context.Context, tenantID int, id int) error {
	ev, err := d.Event(ctx, tenantID, id)
	if err != nil {
		return err
	}
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	rollback := func() {
		rerr := tx.Rollback()
		if rerr != nil {
			d.log.Error("couldnt rollback", zap.Error(rerr))
		}
	}
	speeches := sq.Delete("speeches").
		Where(sq.Expr("session_id IN (SELECT id FROM sessions WHERE event_id = ? AND tenant_id = ?)", ev.ID, tenantID))
	if _, err := d.deleteStatement(ctx, speeches, tx); err != nil {
		rollback()
		return err
	}
	for _, table := range []string{"sessions", "slide_decks", "photos", "access_tokens", "asset_metrics"} {
		del := sq.Delete(table).
			Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"event_id": ev.ID}})
		if _, err := d.deleteStatement(ctx, del, tx); err != nil {
			rollback()
			return err
		}
	}
	del := sq.Delete("events").Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": ev.ID}})
	if _, err := d.deleteStatement(ctx, del, tx); err != nil {
		rollback()
		return err
	}
	return tx.Commit()
}

func eventColumns() sq.SelectBuilder {
	return sq.Select(
		"id",
		"tenant_id",
		"slug",
		"title",
		"description",
		"visibility",
		"starts_at",
		"ends_at",
		"banner_key",
		"created_at",
		"updated_at").
		From("events")
}
