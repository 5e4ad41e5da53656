package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stagepass/stagepass/db/tables"
)

// view and download counters, incremented as sql expressions so
// concurrent requests never lose an update

func (d *DataStore) IncrementMetric(
	ctx context.Context,
	tenantID int,
	eventID int,
	subjectType string,
	subjectID int,
	views int,
	downloads int,
) error {
	q := sq.Update("asset_metrics").
		Set("views", sq.Expr("views + ?", views)).
		Set("downloads", sq.Expr("downloads + ?", downloads)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"tenant_id": tenantID},
			sq.Eq{"subject_type": subjectType},
			sq.Eq{"subject_id": subjectID}})
	rs, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	count, err := rs.RowsAffected()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	insert := sq.Insert("asset_metrics").
		Columns("tenant_id", "event_id", "subject_type", "subject_id", "views", "downloads", "updated_at").
		Values(tenantID, eventID, subjectType, subjectID, views, downloads, time.Now().UTC())
	_, err = d.insertStatement(ctx, insert, nil)
	if err != nil {
		// racing first increments may collide on the unique index,
		// the update above succeeds on retry
		rs, uerr := d.updateStatement(ctx, q, nil)
		if uerr != nil {
			return err
		}
		if c, _ := rs.RowsAffected(); c > 0 {
			return nil
		}
		return err
	}
	return nil
}

func (d *DataStore) MetricsForEvent(
	ctx context.Context,
	tenantID int,
	eventID int,
) ([]*tables.AssetMetricTable, error) {
	s := sq.Select("id", "tenant_id", "event_id", "subject_type", "subject_id", "views", "downloads", "updated_at").
		From("asset_metrics").
		Where(sq.And{sq.Eq{"tenant_id": tenantID}, sq.Eq{"event_id": eventID}}).
		OrderBy("subject_type", "subject_id")
	var rows []*tables.AssetMetricTable
	err := d.selectStatement(ctx, &rows, s, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DataStore) TenantMetricTotals(ctx context.Context, tenantID int) (*MetricTotals, error) {
	s := sq.Select("COALESCE(SUM(views), 0) AS views", "COALESCE(SUM(downloads), 0) AS downloads").
		From("asset_metrics").
		Where(sq.Eq{"tenant_id": tenantID})
	var totals MetricTotals
	err := d.getStatement(ctx, &totals, s, nil)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
