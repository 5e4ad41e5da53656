package tables

import (
	"time"

	"github.com/google/uuid"
)

// AdminTable represents the admins table, one row per agency administrator
type AdminTable struct {
	ID           uuid.UUID  `db:"id"`
	TenantID     int        `db:"tenant_id"`
	Email        string     `db:"email"`
	PasswordHash []byte     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	LastSignInAt *time.Time `db:"last_signin_at"`
}
