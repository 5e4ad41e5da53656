package manage

import (
	"context"
	"errors"
	"regexp"

	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/events/event"
	"github.com/stagepass/stagepass/storage"
	"go.uber.org/zap"
)

var (
	// ErrUnknownPlan indicates a plan name that is not configured
	ErrUnknownPlan = errors.New("unknown plan")
	// ErrInvalidColor indicates a branding color that is not a hex triplet
	ErrInvalidColor = errors.New("colors must be hex values like #1a1a2e")
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// TenantService covers the agency account itself, branding and plan
type TenantService struct {
	store      *db.DataStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
	cfg        *config.Configuration
	signer     *storage.Signer
}

// NewTenantService assembles the tenant service
func NewTenantService(
	store *db.DataStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
	cfg *config.Configuration,
	signer *storage.Signer,
) *TenantService {
	return &TenantService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
		cfg:        cfg,
		signer:     signer,
	}
}

// Tenant returns the agency account of the signed in admin
func (t *TenantService) Tenant(ctx context.Context, tenantID int) (*TenantDTO, error) {
	row, err := t.store.Tenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &TenantDTO{
		ID:        row.ID,
		Slug:      row.Slug,
		Name:      row.Name,
		Plan:      row.Plan,
		CreatedAt: row.CreatedAt,
	}, nil
}

// Branding returns the current branding
func (t *TenantService) Branding(ctx context.Context, tenantID int) (*BrandingDTO, error) {
	row, err := t.store.Branding(ctx, tenantID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := &BrandingDTO{
		PrimaryColor: row.PrimaryColor,
		AccentColor:  row.AccentColor,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.LogoKey != nil {
		dto.LogoURL = t.signer.PresignedURL(t.cfg.Storage.PublicURL, *row.LogoKey)
	}
	return dto, nil
}

// UpdateBranding sets the two branding colors, the logo is uploaded
// separately
func (t *TenantService) UpdateBranding(
	ctx context.Context,
	tenantID int,
	primaryColor string,
	accentColor string,
) (*BrandingDTO, error) {
	if !hexColor.MatchString(primaryColor) || !hexColor.MatchString(accentColor) {
		return nil, ErrInvalidColor
	}
	err := t.store.UpdateBranding(ctx, tenantID, nil, primaryColor, accentColor)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t.Branding(ctx, tenantID)
}

// ChangePlan switches the subscription tier. Downgrades never delete
// anything, existing events over the new quota stay, only new creations
// are blocked.
func (t *TenantService) ChangePlan(ctx context.Context, tenantID int, plan string) error {
	if _, ok := t.cfg.Plan(plan); !ok {
		return ErrUnknownPlan
	}
	tenant, err := t.store.Tenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if tenant.Plan == plan {
		return nil
	}
	if err := t.store.UpdateTenantPlan(ctx, tenantID, plan); err != nil {
		return err
	}
	t.log.Info("plan changed",
		zap.Int("tenant_id", tenantID),
		zap.String("from", tenant.Plan),
		zap.String("to", plan))
	t.dispatcher.Dispatch(ctx, &event.PlanChanged{
		TenantID: tenantID,
		From:     tenant.Plan,
		To:       plan,
	})
	return nil
}
