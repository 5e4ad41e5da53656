package tables

import "time"

// SessionTable represents the sessions table, a block of an event agenda
type SessionTable struct {
	ID        int       `db:"id,omitempty"`
	TenantID  int       `db:"tenant_id"`
	EventID   int       `db:"event_id"`
	Title     string    `db:"title"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	SortOrder int       `db:"sort_order"`
}
