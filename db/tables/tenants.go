package tables

import "time"

// TenantTable represents the tenants table
type TenantTable struct {
	ID        int       `db:"id,omitempty"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	Plan      string    `db:"plan"`
	CreatedAt time.Time `db:"created_at"`
}

// TenantBrandingTable represents the tenant_branding table
type TenantBrandingTable struct {
	TenantID     int        `db:"tenant_id"`
	LogoKey      *string    `db:"logo_key"`
	PrimaryColor string     `db:"primary_color"`
	AccentColor  string     `db:"accent_color"`
	UpdatedAt    *time.Time `db:"updated_at"`
}
