package tables

import "time"

// EventTable represents the events table
type EventTable struct {
	ID          int        `db:"id,omitempty" fiql:"id,db:id"`
	TenantID    int        `db:"tenant_id"`
	Slug        string     `db:"slug" fiql:"slug,db:slug"`
	Title       string     `db:"title" fiql:"title,db:title"`
	Description string     `db:"description"`
	Visibility  string     `db:"visibility" fiql:"visibility,db:visibility"`
	StartsAt    time.Time  `db:"starts_at" fiql:"starts_at,db:starts_at"`
	EndsAt      time.Time  `db:"ends_at" fiql:"ends_at,db:ends_at"`
	BannerKey   *string    `db:"banner_key"`
	CreatedAt   time.Time  `db:"created_at" fiql:"created_at,db:created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}
