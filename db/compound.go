package db

import (
	"time"
)

// ListOptions are the common paging, sorting and filtering options
// for admin listings
type ListOptions struct {
	PageSize int
	Page     int
	Sort     string
	Query    string
}

// DeckDownloadData is a slide deck joined with the owning event,
// everything the public download path needs for its access decision
type DeckDownloadData struct {
	ID              int       `db:"id"`
	TenantID        int       `db:"tenant_id"`
	EventID         int       `db:"event_id"`
	FileKey         string    `db:"file_key"`
	FileName        string    `db:"file_name"`
	ContentType     string    `db:"content_type"`
	SizeBytes       int64     `db:"size_bytes"`
	Status          string    `db:"status"`
	EventSlug       string    `db:"slug"`
	EventVisibility string    `db:"visibility"`
	CreatedAt       time.Time `db:"created_at"`
}

// TokenStatusTotals are the derived status counts of an events tokens
type TokenStatusTotals struct {
	Active  int
	Revoked int
	Expired int
}

// MetricTotals are tenant wide view and download sums
type MetricTotals struct {
	Views     int `db:"views"`
	Downloads int `db:"downloads"`
}
