package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/stagepass/stagepass/events"
)

const (
	AccessTokenIssuedEvent  events.EventName = "access_token_issued"
	AccessTokenRevokedEvent events.EventName = "access_token_revoked"
	AccessLinkSentEvent     events.EventName = "access_link_sent"

	EventCreatedEvent           events.EventName = "event_created"
	EventDeletedEvent           events.EventName = "event_deleted"
	EventVisibilityChangedEvent events.EventName = "event_visibility_changed"

	DeckRegisteredEvent      events.EventName = "deck_registered"
	DeckThumbnailReadyEvent  events.EventName = "deck_thumbnail_ready"
	DeckThumbnailFailedEvent events.EventName = "deck_thumbnail_failed"
	DeckDeletedEvent         events.EventName = "deck_deleted"

	PlanChangedEvent events.EventName = "plan_changed"

	AdminSignedInEvent events.EventName = "admin_signed_in"
)

type AccessTokenIssued struct {
	TenantID  int
	EventID   int
	TokenID   int
	TokenType string
	ExpiresAt time.Time
	IssuedBy  uuid.UUID
}

func (*AccessTokenIssued) Name() events.EventName { return AccessTokenIssuedEvent }

type AccessTokenRevoked struct {
	TenantID  int
	EventID   int
	TokenID   int
	RevokedBy uuid.UUID
}

func (*AccessTokenRevoked) Name() events.EventName { return AccessTokenRevokedEvent }

type AccessLinkSent struct {
	TenantID int
	EventID  int
	TokenID  int
	Email    string
}

func (*AccessLinkSent) Name() events.EventName { return AccessLinkSentEvent }

type EventCreated struct {
	TenantID int
	EventID  int
	Slug     string
}

func (*EventCreated) Name() events.EventName { return EventCreatedEvent }

type EventDeleted struct {
	TenantID int
	EventID  int
}

func (*EventDeleted) Name() events.EventName { return EventDeletedEvent }

type EventVisibilityChanged struct {
	TenantID   int
	EventID    int
	Visibility string
}

func (*EventVisibilityChanged) Name() events.EventName { return EventVisibilityChangedEvent }

type DeckRegistered struct {
	TenantID int
	EventID  int
	DeckID   int
	FileName string
}

func (*DeckRegistered) Name() events.EventName { return DeckRegisteredEvent }

type DeckThumbnailReady struct {
	TenantID int
	DeckID   int
}

func (*DeckThumbnailReady) Name() events.EventName { return DeckThumbnailReadyEvent }

type DeckThumbnailFailed struct {
	TenantID int
	DeckID   int
	Reason   string
}

func (*DeckThumbnailFailed) Name() events.EventName { return DeckThumbnailFailedEvent }

type DeckDeleted struct {
	TenantID int
	DeckID   int
}

func (*DeckDeleted) Name() events.EventName { return DeckDeletedEvent }

type PlanChanged struct {
	TenantID int
	From     string
	To       string
}

func (*PlanChanged) Name() events.EventName { return PlanChangedEvent }

type AdminSignedIn struct {
	TenantID int
	AdminID  uuid.UUID
}

func (*AdminSignedIn) Name() events.EventName { return AdminSignedInEvent }
