package tokens

import (
	"time"
)

// token types
const (
	TypeOrganizer   = "organizer"
	TypeParticipant = "participant"
)

// derived token states, never stored, always computed from
// revoked_at and expires_at at read time
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
	StatusExpired = "expired"
)

// validation failure reasons, these travel to api clients verbatim
const (
	ReasonMalformed  = "Token must be exactly 21 characters"
	ReasonNotFound   = "Token not found"
	ReasonWrongEvent = "Token does not belong to this event"
	ReasonRevoked    = "Token has been revoked"
	ReasonExpired    = "Token expired"
)

// AccessTokenDTO is the admin facing view of an access token
type AccessTokenDTO struct {
	ID         int        `json:"id"`
	EventID    int        `json:"event_id"`
	Token      string     `json:"token"`
	TokenType  string     `json:"token_type"`
	Status     string     `json:"status"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	UseCount   int        `json:"use_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenList is a per event token listing. The tallies always cover all
// of the events tokens, filters narrow the Tokens slice only.
type TokenList struct {
	Tokens  []*AccessTokenDTO `json:"tokens"`
	Total   int               `json:"total"`
	Active  int               `json:"active"`
	Revoked int               `json:"revoked"`
	Expired int               `json:"expired"`
}

// ValidationResult is the outcome of presenting a token against an
// event. Invalid outcomes carry a human readable reason instead of an
// error, a rejected token is an answer, not a failure.
type ValidationResult struct {
	Valid     bool       `json:"valid"`
	TokenID   int        `json:"token_id,omitempty"`
	TokenType string     `json:"token_type,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}
