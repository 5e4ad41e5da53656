package db

import (
	"context"

	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/events/event"
	"go.uber.org/zap"
)

// Auditor is a way to write audit log events into a persistent store
type Auditor interface {
	addToAuditLog(event string, payload tables.MapStructure) error
}

// BootstrapListeners registers all the event listeners from this package
func BootstrapListeners(store Auditor, log *zap.Logger) []events.EventListener {
	return []events.EventListener{
		&tokenIssuedListener{
			log:   log,
			store: store,
		},
		&tokenRevokedListener{
			log:   log,
			store: store,
		},
		&accessLinkSentListener{
			log:   log,
			store: store,
		},
		&eventCreatedListener{
			log:   log,
			store: store,
		},
		&eventDeletedListener{
			log:   log,
			store: store,
		},
		&eventVisibilityChangedListener{
			log:   log,
			store: store,
		},
		&deckRegisteredListener{
			log:   log,
			store: store,
		},
		&planChangedListener{
			log:   log,
			store: store,
		},
		&adminSignedInListener{
			log:   log,
			store: store,
		},
	}
}

type tokenIssuedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*tokenIssuedListener) ForEvent() events.EventName {
	return event.AccessTokenIssuedEvent
}

func (l *tokenIssuedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.AccessTokenIssued)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id":  e.TenantID,
		"event_id":   e.EventID,
		"token_id":   e.TokenID,
		"token_type": e.TokenType,
		"expires_at": e.ExpiresAt.String(),
		"issued_by":  e.IssuedBy.String(),
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type tokenRevokedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*tokenRevokedListener) ForEvent() events.EventName {
	return event.AccessTokenRevokedEvent
}

func (l *tokenRevokedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.AccessTokenRevoked)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id":  e.TenantID,
		"event_id":   e.EventID,
		"token_id":   e.TokenID,
		"revoked_by": e.RevokedBy.String(),
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type accessLinkSentListener struct {
	store Auditor
	log   *zap.Logger
}

func (*accessLinkSentListener) ForEvent() events.EventName {
	return event.AccessLinkSentEvent
}

func (l *accessLinkSentListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.AccessLinkSent)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id": e.TenantID,
		"event_id":  e.EventID,
		"token_id":  e.TokenID,
		"email":     e.Email,
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type eventCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*eventCreatedListener) ForEvent() events.EventName {
	return event.EventCreatedEvent
}

func (l *eventCreatedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.EventCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id": e.TenantID,
		"event_id":  e.EventID,
		"slug":      e.Slug,
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type eventDeletedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*eventDeletedListener) ForEvent() events.EventName {
	return event.EventDeletedEvent
}

func (l *eventDeletedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.EventDeleted)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id": e.TenantID,
		"event_id":  e.EventID,
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type eventVisibilityChangedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*eventVisibilityChangedListener) ForEvent() events.EventName {
	return event.EventVisibilityChangedEvent
}

func (l *eventVisibilityChangedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.EventVisibilityChanged)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id":  e.TenantID,
		"event_id":   e.EventID,
		"visibility": e.Visibility,
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type deckRegisteredListener struct {
	store Auditor
	log   *zap.Logger
}

func (*deckRegisteredListener) ForEvent() events.EventName {
	return event.DeckRegisteredEvent
}

func (l *deckRegisteredListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.DeckRegistered)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id": e.TenantID,
		"event_id":  e.EventID,
		"deck_id":   e.DeckID,
		"file_name": e.FileName,
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type planChangedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*planChangedListener) ForEvent() events.EventName {
	return event.PlanChangedEvent
}

func (l *planChangedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.PlanChanged)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id": e.TenantID,
		"from":      e.From,
		"to":        e.To,
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type adminSignedInListener struct {
	store Auditor
	log   *zap.Logger
}

func (*adminSignedInListener) ForEvent() events.EventName {
	return event.AdminSignedInEvent
}

func (l *adminSignedInListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.AdminSignedIn)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tenant_id": e.TenantID,
		"admin_id":  e.AdminID.String(),
	})
	if err != nil {
		l.log.Warn("could not persist event to audit log", zap.Error(err))
	}
	return nil
}
