package tables

import "time"

// PhotoTable represents the photos table
type PhotoTable struct {
	ID        int       `db:"id,omitempty"`
	TenantID  int       `db:"tenant_id"`
	EventID   int       `db:"event_id"`
	FileKey   string    `db:"file_key"`
	Caption   string    `db:"caption"`
	CreatedAt time.Time `db:"created_at"`
}
