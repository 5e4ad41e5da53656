package manage

import (
	"context"
	"errors"
	"time"

	"github.com/stagepass/stagepass/db"
	"go.uber.org/zap"
)

// MetricsService aggregates the usage telemetry for the agency dashboard
type MetricsService struct {
	store *db.DataStore
	log   *zap.Logger
}

// NewMetricsService assembles the metrics service
func NewMetricsService(store *db.DataStore, log *zap.Logger) *MetricsService {
	return &MetricsService{store: store, log: log}
}

// Dashboard sums events, active tokens, views and downloads across
// the tenant
func (m *MetricsService) Dashboard(ctx context.Context, tenantID int) (*DashboardDTO, error) {
	count, err := m.store.CountEvents(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	activeTokens, err := m.store.CountActiveAccessTokens(ctx, tenantID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	totals, err := m.store.TenantMetricTotals(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &DashboardDTO{
		Events:       count,
		ActiveTokens: activeTokens,
		Views:        totals.Views,
		Downloads:    totals.Downloads,
	}, nil
}

// EventMetrics returns the per subject counters of one event
func (m *MetricsService) EventMetrics(ctx context.Context, tenantID int, eventID int) (*EventMetricsDTO, error) {
	if _, err := m.store.Event(ctx, tenantID, eventID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := m.store.MetricsForEvent(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	dto := &EventMetricsDTO{EventID: eventID, Metrics: make([]*MetricDTO, 0, len(rows))}
	for _, v := range rows {
		dto.Metrics = append(dto.Metrics, metricDTOfromDB(v))
	}
	return dto, nil
}

// RecordEventView counts a public event page hit, best effort
func (m *MetricsService) RecordEventView(ctx context.Context, tenantID int, eventID int) {
	if err := m.store.IncrementMetric(ctx, tenantID, eventID, "event", eventID, 1, 0); err != nil {
		m.log.Warn("could not record event view", zap.Int("event_id", eventID), zap.Error(err))
	}
}
