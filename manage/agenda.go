package manage

import (
	"context"
	"errors"
	"time"

	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/events"
	"go.uber.org/zap"
)

// AgendaService covers sessions and speeches, the schedule of an event
type AgendaService struct {
	store      *db.DataStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
}

// NewAgendaService assembles the agenda service
func NewAgendaService(
	store *db.DataStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
) *AgendaService {
	return &AgendaService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
	}
}

// Sessions lists the agenda of an event including speeches
func (a *AgendaService) Sessions(ctx context.Context, tenantID int, eventID int) ([]*SessionDTO, error) {
	if _, err := a.store.Event(ctx, tenantID, eventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := a.store.Sessions(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*SessionDTO, 0, len(rows))
	for _, v := range rows {
		dto := sessionDTOfromDB(v)
		speeches, err := a.store.Speeches(ctx, tenantID, v.ID)
		if err != nil {
			return nil, err
		}
		for _, s := range speeches {
			dto.Speeches = append(dto.Speeches, speechDTOfromDB(s))
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// CreateSession adds an agenda block to an event
func (a *AgendaService) CreateSession(
	ctx context.Context,
	tenantID int,
	eventID int,
	title string,
	startsAt time.Time,
	endsAt time.Time,
	sortOrder int,
) (*SessionDTO, error) {
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidSchedule
	}
	if _, err := a.store.Event(ctx, tenantID, eventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	id, err := a.store.InsertSession(
		ctx,
		tenantID,
		eventID,
		title,
		startsAt.UTC(),
		endsAt.UTC(),
		sortOrder,
	)
	if err != nil {
		return nil, err
	}
	row, err := a.store.Session(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return sessionDTOfromDB(row), nil
}

// UpdateSession edits an agenda block
func (a *AgendaService) UpdateSession(
	ctx context.Context,
	tenantID int,
	id int,
	title string,
	startsAt time.Time,
	endsAt time.Time,
	sortOrder int,
) error {
	if !endsAt.After(startsAt) {
		return ErrInvalidSchedule
	}
	err := a.store.UpdateSession(
		ctx,
		tenantID,
		id,
		title,
		startsAt.UTC(),
		endsAt.UTC(),
		sortOrder,
	)
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// DeleteSession removes an agenda block together with its speeches
func (a *AgendaService) DeleteSession(ctx context.Context, tenantID int, id int) error {
	err := a.store.DeleteSession(ctx, tenantID, id)
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// CreateSpeech adds a talk to a session
func (a *AgendaService) CreateSpeech(
	ctx context.Context,
	tenantID int,
	sessionID int,
	title string,
	speaker string,
	summary string,
	durationMin int,
	sortOrder int,
) (*SpeechDTO, error) {
	if _, err := a.store.Session(ctx, tenantID, sessionID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	id, err := a.store.InsertSpeech(
		ctx,
		tenantID,
		sessionID,
		title,
		speaker,
		summary,
		durationMin,
		sortOrder,
	)
	if err != nil {
		return nil, err
	}
	row, err := a.store.Speech(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return speechDTOfromDB(row), nil
}

// UpdateSpeech edits a talk
func (a *AgendaService) UpdateSpeech(
	ctx context.Context,
	tenantID int,
	id int,
	title string,
	speaker string,
	summary string,
	durationMin int,
	sortOrder int,
) error {
	err := a.store.UpdateSpeech(
		ctx,
		tenantID,
		id,
		title,
		speaker,
		summary,
		durationMin,
		sortOrder,
	)
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// DeleteSpeech removes a talk
func (a *AgendaService) DeleteSpeech(ctx context.Context, tenantID int, id int) error {
	err := a.store.DeleteSpeech(ctx, tenantID, id)
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
