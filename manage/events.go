package manage

import (
	"context"
	"errors"
	"time"

	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/events/event"
	"github.com/stagepass/stagepass/storage"
	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates the entity does not exist within the tenant
	ErrNotFound = errors.New("not found")
	// ErrSlugTaken indicates the event slug is already in use
	ErrSlugTaken = errors.New("slug already taken")
	// ErrPlanLimitReached indicates the tenants plan does not allow
	// another event
	ErrPlanLimitReached = errors.New("plan event limit reached")
	// ErrInvalidVisibility indicates a visibility other than public or private
	ErrInvalidVisibility = errors.New("visibility must be public or private")
	// ErrInvalidSchedule indicates an event or session ending before it starts
	ErrInvalidSchedule = errors.New("end must be after start")
)

// EventService covers the agency side event lifecycle
type EventService struct {
	store      *db.DataStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
	cfg        *config.Configuration
	signer     *storage.Signer
}

// NewEventService assembles the event service
func NewEventService(
	store *db.DataStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
	cfg *config.Configuration,
	signer *storage.Signer,
) *EventService {
	return &EventService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
		cfg:        cfg,
		signer:     signer,
	}
}

func (e *EventService) bannerURL(t *tables.EventTable) string {
	if t.BannerKey == nil {
		return ""
	}
	return e.signer.PresignedURL(e.cfg.Storage.PublicURL, *t.BannerKey)
}

// List returns the tenants events, paged and filterable
func (e *EventService) List(
	ctx context.Context,
	tenantID int,
	page int,
	pageSize int,
	q string,
	sort string,
) (*PaginationResponse, error) {
	rows, total, err := e.store.Events(ctx, tenantID, listOptions(page, pageSize, q, sort))
	if err != nil {
		return nil, err
	}
	dtos := make([]*EventDTO, 0)
	for _, v := range rows {
		dtos = append(dtos, eventDTOfromDB(v, e.bannerURL(v)))
	}
	return &PaginationResponse{
		Total:   total,
		Entries: dtos,
	}, nil
}

// ByID resolves a single event within the tenant
func (e *EventService) ByID(ctx context.Context, tenantID int, id int) (*EventDTO, error) {
	row, err := e.store.Event(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return eventDTOfromDB(row, e.bannerURL(row)), nil
}

// Create makes a new event, enforcing the plans event quota
func (e *EventService) Create(
	ctx context.Context,
	tenantID int,
	slug string,
	title string,
	description string,
	visibility string,
	startsAt time.Time,
	endsAt time.Time,
) (*EventDTO, error) {
	if visibility != "public" && visibility != "private" {
		return nil, ErrInvalidVisibility
	}
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidSchedule
	}
	tenant, err := e.store.Tenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	plan, ok := e.cfg.Plan(tenant.Plan)
	if ok && plan.MaxEvents > 0 {
		count, err := e.store.CountEvents(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if count >= plan.MaxEvents {
			return nil, ErrPlanLimitReached
		}
	}
	id, err := e.store.InsertEvent(
		ctx,
		tenantID,
		slug,
		title,
		description,
		visibility,
		startsAt.UTC(),
		endsAt.UTC(),
	)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	e.dispatcher.Dispatch(ctx, &event.EventCreated{
		TenantID: tenantID,
		EventID:  id,
		Slug:     slug,
	})
	return e.ByID(ctx, tenantID, id)
}

// Update edits title, description and schedule, the slug is immutable
// because it is baked into shared deep links
func (e *EventService) Update(
	ctx context.Context,
	tenantID int,
	id int,
	title string,
	description string,
	startsAt time.Time,
	endsAt time.Time,
) (*EventDTO, error) {
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidSchedule
	}
	err := e.store.UpdateEvent(
		ctx,
		tenantID,
		id,
		title,
		description,
		startsAt.UTC(),
		endsAt.UTC(),
	)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e.ByID(ctx, tenantID, id)
}

// SetVisibility flips an event between public and private. Existing
// tokens stay untouched, a later flip back to private revives them.
func (e *EventService) SetVisibility(
	ctx context.Context,
	tenantID int,
	id int,
	visibility string,
) error {
	if visibility != "public" && visibility != "private" {
		return ErrInvalidVisibility
	}
	err := e.store.SetEventVisibility(ctx, tenantID, id, visibility)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	e.dispatcher.Dispatch(ctx, &event.EventVisibilityChanged{
		TenantID:   tenantID,
		EventID:    id,
		Visibility: visibility,
	})
	return nil
}

// SetBanner attaches an uploaded banner asset to the event
func (e *EventService) SetBanner(ctx context.Context, tenantID int, id int, bannerKey string) error {
	err := e.store.SetEventBanner(ctx, tenantID, id, bannerKey)
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Delete removes the event with all agenda items, assets rows, tokens
// and metrics
func (e *EventService) Delete(ctx context.Context, tenantID int, id int) error {
	err := e.store.DeleteEvent(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	e.log.Info("deleted event", zap.Int("event_id", id))
	e.dispatcher.Dispatch(ctx, &event.EventDeleted{
		TenantID: tenantID,
		EventID:  id,
	})
	return nil
}
