package tables

import "time"

// AssetMetricTable represents the asset_metrics table, per subject
// view and download counters
type AssetMetricTable struct {
	ID          int        `db:"id,omitempty"`
	TenantID    int        `db:"tenant_id"`
	EventID     int        `db:"event_id"`
	SubjectType string     `db:"subject_type"`
	SubjectID   int        `db:"subject_id"`
	Views       int        `db:"views"`
	Downloads   int        `db:"downloads"`
	UpdatedAt   *time.Time `db:"updated_at"`
}
