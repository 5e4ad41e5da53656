package manage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/stagepass/stagepass/config"
	"github.com/stagepass/stagepass/conversion"
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/db/tables"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/events/event"
	"github.com/stagepass/stagepass/sanitize"
	"github.com/stagepass/stagepass/storage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

var (
	// ErrUploadTooLarge indicates an upload exceeding the plans size cap
	ErrUploadTooLarge = errors.New("upload exceeds plan size limit")
	// ErrGalleryNotInPlan indicates a photo upload on a plan without
	// the gallery feature
	ErrGalleryNotInPlan = errors.New("photo gallery is not part of the plan")
)

// deck lifecycle states
const (
	DeckStatusUploaded   = "uploaded"
	DeckStatusProcessing = "processing"
	DeckStatusReady      = "ready"
	DeckStatusFailed     = "failed"
)

// AccessDeniedError carries the token rejection reason to the public
// download handler
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return e.Reason
}

// MediaService covers slide decks, photos and the binary assets
// behind them
type MediaService struct {
	store      *db.DataStore
	objects    storage.ObjectStore
	signer     *storage.Signer
	converter  *conversion.Client
	authority  *tokens.Authority
	log        *zap.Logger
	dispatcher *events.Dispatcher
	cfg        *config.Configuration
}

// NewMediaService assembles the media service
func NewMediaService(
	store *db.DataStore,
	objects storage.ObjectStore,
	signer *storage.Signer,
	converter *conversion.Client,
	authority *tokens.Authority,
	log *zap.Logger,
	dispatcher *events.Dispatcher,
	cfg *config.Configuration,
) *MediaService {
	return &MediaService{
		store:      store,
		objects:    objects,
		signer:     signer,
		converter:  converter,
		authority:  authority,
		log:        log,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

func (m *MediaService) checkUploadSize(ctx context.Context, tenantID int, size int64) error {
	tenant, err := m.store.Tenant(ctx, tenantID)
	if err != nil {
		return err
	}
	plan, ok := m.cfg.Plan(tenant.Plan)
	if ok && plan.MaxUploadMB > 0 && size > int64(plan.MaxUploadMB)*1024*1024 {
		return ErrUploadTooLarge
	}
	return nil
}

func objectKey(tenantID int, eventID int, kind string, fileName string) string {
	name := path.Base(sanitize.NoLineBreaks(fileName))
	return fmt.Sprintf("%d/events/%d/%s/%s/%s", tenantID, eventID, kind, uuid.NewString(), name)
}

func (m *MediaService) thumbnailURL(t *tables.SlideDeckTable) string {
	if t.ThumbnailKey == nil {
		return ""
	}
	return m.signer.PresignedURL(m.cfg.Storage.PublicURL, *t.ThumbnailKey)
}

// UploadDeck stores the file and registers the deck, kicking off
// thumbnail conversion when the service is configured
func (m *MediaService) UploadDeck(
	ctx context.Context,
	tenantID int,
	eventID int,
	speechID *int,
	fileName string,
	contentType string,
	size int64,
	r io.Reader,
) (*DeckDTO, error) {
	if _, err := m.store.Event(ctx, tenantID, eventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := m.checkUploadSize(ctx, tenantID, size); err != nil {
		return nil, err
	}
	key := objectKey(tenantID, eventID, "decks", fileName)
	written, err := m.objects.Put(ctx, key, r)
	if err != nil {
		return nil, err
	}
	status := DeckStatusUploaded
	if m.converter.Enabled() {
		status = DeckStatusProcessing
	}
	id, err := m.store.InsertDeck(ctx, tenantID, eventID, speechID, key, fileName, contentType, written, status)
	if err != nil {
		if derr := m.objects.Delete(ctx, key); derr != nil {
			m.log.Warn("could not clean up orphaned deck object", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}
	m.dispatcher.Dispatch(ctx, &event.DeckRegistered{
		TenantID: tenantID,
		EventID:  eventID,
		DeckID:   id,
		FileName: fileName,
	})
	if m.converter.Enabled() {
		err = m.converter.Submit(ctx, &conversion.Request{
			DeckID:      id,
			DownloadURL: m.signer.PresignedURL(m.cfg.Storage.PublicURL, key),
			CallbackURL: m.cfg.Frontend.BaseURL + "/webhooks/conversion",
		})
		if err != nil {
			// the deck stays usable, only the preview is missing
			m.log.Warn("conversion submission failed", zap.Int("deck_id", id), zap.Error(err))
			if serr := m.store.SetDeckStatus(ctx, tenantID, id, DeckStatusUploaded); serr != nil {
				m.log.Warn("could not reset deck status", zap.Int("deck_id", id), zap.Error(serr))
			}
		}
	}
	row, err := m.store.Deck(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return deckDTOfromDB(row, m.thumbnailURL(row)), nil
}

// Decks lists the decks of an event
func (m *MediaService) Decks(ctx context.Context, tenantID int, eventID int) ([]*DeckDTO, error) {
	rows, err := m.store.Decks(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*DeckDTO, 0, len(rows))
	for _, v := range rows {
		dtos = append(dtos, deckDTOfromDB(v, m.thumbnailURL(v)))
	}
	return dtos, nil
}

// DeleteDeck removes the row and the stored objects
func (m *MediaService) DeleteDeck(ctx context.Context, tenantID int, id int) error {
	row, err := m.store.Deck(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := m.store.DeleteDeck(ctx, tenantID, id); err != nil {
		return err
	}
	if err := m.objects.Delete(ctx, row.FileKey); err != nil && !errors.Is(err, storage.ErrNoSuchObject) {
		m.log.Warn("could not delete deck object", zap.String("key", row.FileKey), zap.Error(err))
	}
	if row.ThumbnailKey != nil {
		if err := m.objects.Delete(ctx, *row.ThumbnailKey); err != nil && !errors.Is(err, storage.ErrNoSuchObject) {
			m.log.Warn("could not delete thumbnail object", zap.String("key", *row.ThumbnailKey), zap.Error(err))
		}
	}
	m.dispatcher.Dispatch(ctx, &event.DeckDeleted{
		TenantID: tenantID,
		DeckID:   id,
	})
	return nil
}

// ApplyConversionResult handles the webhook callback of the external
// conversion service
func (m *MediaService) ApplyConversionResult(ctx context.Context, result *conversion.Result) error {
	if result.Success {
		err := m.store.SetDeckConversionResult(ctx, result.DeckID, result.ThumbnailKey, DeckStatusReady)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		m.dispatcher.Dispatch(ctx, &event.DeckThumbnailReady{DeckID: result.DeckID})
		return nil
	}
	err := m.store.SetDeckConversionResult(ctx, result.DeckID, nil, DeckStatusFailed)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	m.log.Warn("deck conversion failed",
		zap.Int("deck_id", result.DeckID),
		zap.String("reason", result.Error))
	m.dispatcher.Dispatch(ctx, &event.DeckThumbnailFailed{
		DeckID: result.DeckID,
		Reason: result.Error,
	})
	return nil
}

// DeckDownload is an open deck stream handed to the download handler
type DeckDownload struct {
	Content     io.ReadCloser
	FileName    string
	ContentType string
	SizeBytes   int64
}

// PublicDeckDownload serves the participant facing download path. Decks
// of public events are free to grab, private events require a valid
// access token for the deck's event.
func (m *MediaService) PublicDeckDownload(
	ctx context.Context,
	deckID int,
	token string,
) (*DeckDownload, error) {
	data, err := m.store.DeckForDownload(ctx, deckID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if data.EventVisibility == "private" {
		result, err := m.authority.Validate(ctx, token, data.EventID)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, &AccessDeniedError{Reason: result.Reason}
		}
	}
	content, err := m.objects.Open(ctx, data.FileKey)
	if err != nil {
		if errors.Is(err, storage.ErrNoSuchObject) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := m.store.IncrementMetric(ctx, data.TenantID, data.EventID, "deck", data.ID, 0, 1); err != nil {
		m.log.Warn("could not record deck download", zap.Int("deck_id", data.ID), zap.Error(err))
	}
	return &DeckDownload{
		Content:     content,
		FileName:    data.FileName,
		ContentType: data.ContentType,
		SizeBytes:   data.SizeBytes,
	}, nil
}

// UploadPhoto adds a gallery photo, gated by the plans gallery feature
func (m *MediaService) UploadPhoto(
	ctx context.Context,
	tenantID int,
	eventID int,
	fileName string,
	caption string,
	size int64,
	r io.Reader,
) (*PhotoDTO, error) {
	if _, err := m.store.Event(ctx, tenantID, eventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	tenant, err := m.store.Tenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	plan, ok := m.cfg.Plan(tenant.Plan)
	if ok && !plan.PhotoGallery {
		return nil, ErrGalleryNotInPlan
	}
	if err := m.checkUploadSize(ctx, tenantID, size); err != nil {
		return nil, err
	}
	key := objectKey(tenantID, eventID, "photos", fileName)
	if _, err := m.objects.Put(ctx, key, r); err != nil {
		return nil, err
	}
	id, err := m.store.InsertPhoto(ctx, tenantID, eventID, key, caption)
	if err != nil {
		if derr := m.objects.Delete(ctx, key); derr != nil {
			m.log.Warn("could not clean up orphaned photo object", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}
	row, err := m.store.Photo(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return m.photoDTO(row), nil
}

func (m *MediaService) photoDTO(t *tables.PhotoTable) *PhotoDTO {
	return &PhotoDTO{
		ID:        t.ID,
		EventID:   t.EventID,
		URL:       m.signer.PresignedURL(m.cfg.Storage.PublicURL, t.FileKey),
		Caption:   t.Caption,
		CreatedAt: t.CreatedAt,
	}
}

// Photos lists the gallery of an event
func (m *MediaService) Photos(ctx context.Context, tenantID int, eventID int) ([]*PhotoDTO, error) {
	rows, err := m.store.Photos(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*PhotoDTO, 0, len(rows))
	for _, v := range rows {
		dtos = append(dtos, m.photoDTO(v))
	}
	return dtos, nil
}

// DeletePhoto removes a gallery photo and its object
func (m *MediaService) DeletePhoto(ctx context.Context, tenantID int, id int) error {
	row, err := m.store.Photo(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := m.store.DeletePhoto(ctx, tenantID, id); err != nil {
		return err
	}
	if err := m.objects.Delete(ctx, row.FileKey); err != nil && !errors.Is(err, storage.ErrNoSuchObject) {
		m.log.Warn("could not delete photo object", zap.String("key", row.FileKey), zap.Error(err))
	}
	return nil
}

// UploadBanner stores an event banner and links it to the event
func (m *MediaService) UploadBanner(
	ctx context.Context,
	tenantID int,
	eventID int,
	fileName string,
	size int64,
	r io.Reader,
) error {
	if _, err := m.store.Event(ctx, tenantID, eventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := m.checkUploadSize(ctx, tenantID, size); err != nil {
		return err
	}
	key := objectKey(tenantID, eventID, "banner", fileName)
	if _, err := m.objects.Put(ctx, key, r); err != nil {
		return err
	}
	return m.store.SetEventBanner(ctx, tenantID, eventID, key)
}

// UploadLogo stores a tenant logo and attaches it to the branding
func (m *MediaService) UploadLogo(
	ctx context.Context,
	tenantID int,
	fileName string,
	size int64,
	r io.Reader,
) error {
	if err := m.checkUploadSize(ctx, tenantID, size); err != nil {
		return err
	}
	branding, err := m.store.Branding(ctx, tenantID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	name := path.Base(sanitize.NoLineBreaks(fileName))
	key := fmt.Sprintf("%d/branding/%s/%s", tenantID, uuid.NewString(), name)
	if _, err := m.objects.Put(ctx, key, r); err != nil {
		return err
	}
	return m.store.UpdateBranding(ctx, tenantID, &key, branding.PrimaryColor, branding.AccentColor)
}
