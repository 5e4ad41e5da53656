package manage

import (
	"net/http"
	"time"

	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
)

// PaginationResponse is a paged listing envelope
type PaginationResponse struct {
	Total   int         `json:"total"`
	Entries interface{} `json:"entries"`
}

func (*PaginationResponse) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type EventDTO struct {
	ID          int        `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Visibility  string     `json:"visibility"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	BannerURL   string     `json:"banner_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (*EventDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type SessionDTO struct {
	ID        int         `json:"id"`
	EventID   int         `json:"event_id"`
	Title     string      `json:"title"`
	StartsAt  time.Time   `json:"starts_at"`
	EndsAt    time.Time   `json:"ends_at"`
	SortOrder int         `json:"sort_order"`
	Speeches  []*SpeechDTO `json:"speeches,omitempty"`
}

func (*SessionDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type SpeechDTO struct {
	ID          int    `json:"id"`
	SessionID   int    `json:"session_id"`
	Title       string `json:"title"`
	Speaker     string `json:"speaker"`
	Summary     string `json:"summary"`
	DurationMin int    `json:"duration_min"`
	SortOrder   int    `json:"sort_order"`
}

func (*SpeechDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type DeckDTO struct {
	ID           int       `json:"id"`
	EventID      int       `json:"event_id"`
	SpeechID     *int      `json:"speech_id,omitempty"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Status       string    `json:"status"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (*DeckDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type PhotoDTO struct {
	ID        int       `json:"id"`
	EventID   int       `json:"event_id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

func (*PhotoDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type BrandingDTO struct {
	LogoURL      string     `json:"logo_url,omitempty"`
	PrimaryColor string     `json:"primary_color"`
	AccentColor  string     `json:"accent_color"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (*BrandingDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type TenantDTO struct {
	ID        int       `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

func (*TenantDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

type MetricDTO struct {
	SubjectType string     `json:"subject_type"`
	SubjectID   int        `json:"subject_id"`
	Views       int        `json:"views"`
	Downloads   int        `json:"downloads"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// DashboardDTO is the agency dashboard summary
type DashboardDTO struct {
	Events       int `json:"events"`
	ActiveTokens int `json:"active_tokens"`
	Views        int `json:"views"`
	Downloads    int `json:"downloads"`
}

func (*DashboardDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

// EventMetricsDTO groups the per subject counters of one event
type EventMetricsDTO struct {
	EventID int          `json:"event_id"`
	Metrics []*MetricDTO `json:"metrics"`
}

func (*EventMetricsDTO) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

func eventDTOfromDB(t *tables.EventTable, bannerURL string) *EventDTO {
	return &EventDTO{
		ID:          t.ID,
		Slug:        t.Slug,
		Title:       t.Title,
		Description: t.Description,
		Visibility:  t.Visibility,
		StartsAt:    t.StartsAt,
		EndsAt:      t.EndsAt,
		BannerURL:   bannerURL,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func sessionDTOfromDB(t *tables.SessionTable) *SessionDTO {
	return &SessionDTO{
		ID:        t.ID,
		EventID:   t.EventID,
		Title:     t.Title,
		StartsAt:  t.StartsAt,
		EndsAt:    t.EndsAt,
		SortOrder: t.SortOrder,
	}
}

func speechDTOfromDB(t *tables.SpeechTable) *SpeechDTO {
	return &SpeechDTO{
		ID:          t.ID,
		SessionID:   t.SessionID,
		Title:       t.Title,
		Speaker:     t.Speaker,
		Summary:     t.Summary,
		DurationMin: t.DurationMin,
		SortOrder:   t.SortOrder,
	}
}

func deckDTOfromDB(t *tables.SlideDeckTable, thumbnailURL string) *DeckDTO {
	return &DeckDTO{
		ID:           t.ID,
		EventID:      t.EventID,
		SpeechID:     t.SpeechID,
		FileName:     t.FileName,
		ContentType:  t.ContentType,
		SizeBytes:    t.SizeBytes,
		Status:       t.Status,
		ThumbnailURL: thumbnailURL,
		CreatedAt:    t.CreatedAt,
	}
}

func metricDTOfromDB(t *tables.AssetMetricTable) *MetricDTO {
	return &MetricDTO{
		SubjectType: t.SubjectType,
		SubjectID:   t.SubjectID,
		Views:       t.Views,
		Downloads:   t.Downloads,
		UpdatedAt:   t.UpdatedAt,
	}
}

func listOptions(page int, pageSize int, q string, sort string) db.ListOptions {
	if pageSize <= 0 {
		pageSize = 20
	}
	return db.ListOptions{Page: page, PageSize: pageSize, Query: q, Sort: sort}
}
