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

// slide decks and photos

func (d *DataStore) InsertDeck(
	ctx context.Context,
	tenantID int,
	eventID int,
	speechID *int,
	fileKey string,
	fileName string,
	contentType string,
	sizeBytes int64,
	status string,
) (int, error) {
	m := map[string]interface{}{
		"tenant_id":    tenantID,
		"event_id":     eventID,
		"speech_id":    speechID,
		"file_key":     fileKey,
		"file_name":    fileName,
		"content_type": contentType,
		"size_bytes":   sizeBytes,
		"status":       status,
		"created_at":   time.Now().UTC(),
	}
	insert := sq.Insert("slide_decks").SetMap(m).Suffix("RETURNING id")
	var id int
	err := d.returningInsertStatement(ctx, &id, insert, nil)
	if err != nil {
		d.log.Error("could not insert slide deck", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (d *DataStore) Deck(ctx context.Context, tenantID int, id int) (*tables.SlideDeckTable, error) {
	s := deckColumns().Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	var row tables.SlideDeckTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) Decks(ctx context.Context, tenantID int, eventID int) ([]*tables.SlideDeckTable, error) {
	s := deckColumns().
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"event_id": eventID}}).
		OrderBy("created_at DESC")
	var rows []*tables.SlideDeckTable
	err := d.selectStatement(ctx, &rows, s, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeckForDownload joins the deck with its event. The public download path
// calls this without a tenant context, the access decision is made against
// the event visibility and the presented token.
func (d *DataStore) DeckForDownload(ctx context.Context, id int) (*DeckDownloadData, error) {
	s := sq.Select(
		"slide_decks.id",
		"slide_decks.tenant_id",
		"slide_decks.event_id",
		"slide_decks.file_key",
		"slide_decks.file_name",
		"slide_decks.content_type",
		"slide_decks.size_bytes",
		"slide_decks.status",
		"slide_decks.created_at",
		"events.slug",
		"events.visibility").
		From("slide_decks").
		Join("events ON slide_decks.event_id = events.id").
		Where(sq.Eq{"slide_decks.id": id})
	var row DeckDownloadData
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// SetDeckConversionResult is called from the conversion webhook, which is
// authenticated by signature rather than tenant context
func (d *DataStore) SetDeckConversionResult(
	ctx context.Context,
	id int,
	thumbnailKey *string,
	status string,
) error {
	q := sq.Update("slide_decks").
		Set("status", status).
		Where(sq.Eq{"id": id})
	if thumbnailKey != nil {
		q = q.Set("thumbnail_key", *thumbnailKey)
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

func (d *DataStore) SetDeckStatus(ctx context.Context, tenantID int, id int, status string) error {
	q := sq.Update("slide_decks").
		Set("status", status).
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

func (d *DataStore) DeleteDeck(ctx context.Context, tenantID int, id int) error {
	q := sq.Delete("slide_decks").Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
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

func (d *DataStore) InsertPhoto(
	ctx context.Context,
	tenantID int,
	eventID int,
	fileKey string,
	caption string,
) (int, error) {
	m := map[string]interface{}{
		"tenant_id":  tenantID,
		"event_id":   eventID,
		"file_key":   fileKey,
		"caption":    caption,
		"created_at": time.Now().UTC(),
	}
	insert := sq.Insert("photos").SetMap(m).Suffix("RETURNING id")
	var id int
	err := d.returningInsertStatement(ctx, &id, insert, nil)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *DataStore) Photos(ctx context.Context, tenantID int, eventID int) ([]*tables.PhotoTable, error) {
	s := sq.Select("id", "tenant_id", "event_id", "file_key", "caption", "created_at").
		From("photos").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"event_id": eventID}}).
		OrderBy("created_at DESC")
	var rows []*tables.PhotoTable
	err := d.selectStatement(ctx, &rows, s, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DataStore) Photo(ctx context.Context, tenantID int, id int) (*tables.PhotoTable, error) {
	s := sq.Select("id", "tenant_id", "event_id", "file_key", "caption", "created_at").
		From("photos").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
	var row tables.PhotoTable
	err := d.getStatement(ctx, &row, s, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (d *DataStore) DeletePhoto(ctx context.Context, tenantID int, id int) error {
	q := sq.Delete("photos").Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"id": id}})
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

func deckColumns() sq.SelectBuilder {
	return sq.Select(
		"id",
		"tenant_id",
		"event_id",
		"speech_id",
		"file_key",
		"file_name",
		"content_type",
		"size_bytes",
		"thumbnail_key",
		"status",
		"created_at").
		From("slide_decks")
}
