package tables

import (
	"time"

	"github.com/google/uuid"
)

// AccessTokenTable represents the access_tokens table, the opaque bearer
// credentials gating private events
type AccessTokenTable struct {
	ID         int        `db:"id,omitempty" fiql:"id,db:id"`
	TenantID   int        `db:"tenant_id"`
	EventID    int        `db:"event_id" fiql:"event_id,db:event_id"`
	Token      string     `db:"token"`
	TokenType  string     `db:"token_type" fiql:"token_type,db:token_type"`
	ExpiresAt  time.Time  `db:"expires_at" fiql:"expires_at,db:expires_at"`
	RevokedAt  *time.Time `db:"revoked_at" fiql:"revoked_at,db:revoked_at"`
	RevokedBy  *uuid.UUID `db:"revoked_by"`
	LastUsedAt *time.Time `db:"last_used_at"`
	UseCount   int        `db:"use_count" fiql:"use_count,db:use_count"`
	CreatedAt  time.Time  `db:"created_at" fiql:"created_at,db:created_at"`
}
