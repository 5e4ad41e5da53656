package tables

import "time"

// SlideDeckTable represents the slide_decks table
type SlideDeckTable struct {
	ID           int       `db:"id,omitempty"`
	TenantID     int       `db:"tenant_id"`
	EventID      int       `db:"event_id"`
	SpeechID     *int      `db:"speech_id"`
	FileKey      string    `db:"file_key"`
	FileName     string    `db:"file_name"`
	ContentType  string    `db:"content_type"`
	SizeBytes    int64     `db:"size_bytes"`
	ThumbnailKey *string   `db:"thumbnail_key"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}
