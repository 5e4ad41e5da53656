package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stagepass/stagepass/db/tables"
)

// sessions and speeches, the agenda of an event

func (d *DataStore) InsertSession(
	ctx context.Context,
	tenantID int,
	eventID int,
	title string,
	startsAt time.Time,
	endsAt time.Time,
	sortOrder int,
) (int, error) {
	m := map[string]interface{}{
		"tenant_id":  tenantID,
		"event_id":   eventID,
		"title":      title,
		"starts_at":  startsAt,
		"ends_at":    endsAt,
		"sort_order": sortOrder,
	}
	insert := sq.Insert("sessions").SetMap(m).Suffix("RETURNING id")
	var id int
	err := d.returningInsertStatement(ctx, &id, insert, nil)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *DataStore) Session(ctx context.Context, tenantID int, id int) (*tables.SessionTable, error) {
	s := sq.Select("id", "tenant_id", "event_id", "title", "starts_at", "ends_at", "sort_order").
		From("sessions").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	var row tables.SessionTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) Sessions(ctx context.Context, tenantID int, eventID int) ([]*tables.SessionTable, error) {
	s := sq.Select("id", "tenant_id", "event_id", "title", "starts_at", "ends_at", "sort_order").
		From("sessions").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"event_id": eventID}}).
		OrderBy("sort_order", "starts_at")
	var rows []*tables.SessionTable
	err := d.selectStatement(ctx, &rows, s, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DataStore) UpdateSession(
	ctx context.Context,
	tenantID int,
	id int,
	title string,
	startsAt time.Time,
	endsAt time.Time,
	sortOrder int,
) error {
	q := sq.Update("sessions").
		Set("title", title).
		Set("starts_at", startsAt).
		Set("ends_at", endsAt).
		Set("sort_order", sortOrder).
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

func (d *DataStore) DeleteSession(ctx context.Context, tenantID int, id int) error {
	del := sq.Delete("speeches").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"session_id": id}})
	if _, err := d.deleteStatement(ctx, del, nil); err != nil {
		return err
	}
	q := sq.Delete("sessions").Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	rs, err := d.deleteStatement(ctx, q, nil)
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

func (d *DataStore) InsertSpeech(
	ctx context.Context,
	tenantID int,
	sessionID int,
	title string,
	speaker string,
	summary string,
	durationMin int,
	sortOrder int,
) (int, error) {
	m := map[string]interface{}{
		"tenant_id":    tenantID,
		"session_id":   sessionID,
		"title":        title,
		"speaker":      speaker,
		"summary":      summary,
		"duration_min": durationMin,
		"sort_order":   sortOrder,
	}
	insert := sq.Insert("speeches").SetMap(m).Suffix("RETURNING id")
	var id int
	err := d.returningInsertStatement(ctx, &id, insert, nil)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *DataStore) Speech(ctx context.Context, tenantID int, id int) (*tables.SpeechTable, error) {
	s := sq.Select("id", "tenant_id", "session_id", "title", "speaker", "summary", "duration_min", "sort_order").
		From("speeches").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	var row tables.SpeechTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) Speeches(ctx context.Context, tenantID int, sessionID int) ([]*tables.SpeechTable, error) {
	s := sq.Select("id", "tenant_id", "session_id", "title", "speaker", "summary", "duration_min", "sort_order").
		From("speeches").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"session_id": sessionID}}).
		OrderBy("sort_order")
	var rows []*tables.SpeechTable
	err := d.selectStatement(ctx, &rows, s, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DataStore) UpdateSpeech(
	ctx context.Context,
	tenantID int,
	id int,
	title string,
	speaker string,
	summary string,
	durationMin int,
	sortOrder int,
) error {
	q := sq.Update("speeches").
		Set("title", title).
		Set("speaker", speaker).
		Set("summary", summary).
		Set("duration_min", durationMin).
		Set("sort_order", sortOrder).
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

func (d *DataStore) DeleteSpeech(ctx context.Context, tenantID int, id int) error {
	q := sq.Delete("speeches").Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	rs, err := d.deleteStatement(ctx, q, nil)
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
