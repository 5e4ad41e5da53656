package tables

// SpeechTable represents the speeches table, a single talk within a session
type SpeechTable struct {
	ID          int    `db:"id,omitempty"`
	TenantID    int    `db:"tenant_id"`
	SessionID   int    `db:"session_id"`
	Title       string `db:"title"`
	Speaker     string `db:"speaker"`
	Summary     string `db:"summary"`
	DurationMin int    `db:"duration_min"`
	SortOrder   int    `db:"sort_order"`
}
