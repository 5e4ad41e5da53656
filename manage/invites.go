package manage

import (
	"context"
	"errors"

	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/events/event"
	"github.com/stagepass/stagepass/mailing"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

// ErrTokenRevoked indicates an attempt to share a revoked token
var ErrTokenRevoked = errors.New("token has been revoked")

// InviteService mails access links for private events to participants
type InviteService struct {
	store      *db.DataStore
	authority  *tokens.Authority
	links      *tokens.Links
	mailer     *mailing.Mailer
	log        *zap.Logger
	dispatcher *events.Dispatcher
}

// NewInviteService assembles the invite service
func NewInviteService(
	store *db.DataStore,
	authority *tokens.Authority,
	links *tokens.Links,
	mailer *mailing.Mailer,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
) *InviteService {
	return &InviteService{
		store:      store,
		authority:  authority,
		links:      links,
		mailer:     mailer,
		log:        log,
		dispatcher: dispatcher,
	}
}

// SendAccessLink mails the deep link of an existing token to the given
// address
func (i *InviteService) SendAccessLink(
	ctx context.Context,
	tenantID int,
	tokenID int,
	email string,
) error {
	dto, err := i.authority.Get(ctx, tenantID, tokenID)
	if err != nil {
		if errors.Is(err, tokens.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if dto.Status == tokens.StatusRevoked {
		return ErrTokenRevoked
	}
	link, err := i.links.AccessURL(ctx, tenantID, tokenID)
	if err != nil {
		if errors.Is(err, tokens.ErrRevokedToken) {
			return ErrTokenRevoked
		}
		return err
	}
	ev, err := i.store.Event(ctx, tenantID, dto.EventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := i.mailer.SendAccessLinkMail(email, ev.Title, link, dto.Token); err != nil {
		return err
	}
	i.log.Info("sent access link",
		zap.Int("token_id", tokenID),
		zap.Int("event_id", dto.EventID))
	i.dispatcher.Dispatch(ctx, &event.AccessLinkSent{
		TenantID: tenantID,
		EventID:  dto.EventID,
		TokenID:  tokenID,
		Email:    email,
	})
	return nil
}
