package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flood-watch/internal/catalog"
	"flood-watch/internal/models"
)

type fakeSource struct {
	alerts      []models.Alert
	routes      []models.Route
	alertFails  int32
	calls       atomic.Int32
	beforeReply func()
}

func (f *fakeSource) LoadAlerts(ctx context.Context) ([]models.Alert, error) {
	if f.calls.Add(1) <= f.alertFails {
		return nil, errors.New("connection reset")
	}
	return f.alerts, nil
}

func (f *fakeSource) LoadRoutes(ctx context.Context) ([]models.Route, error) {
	if f.beforeReply != nil {
		f.beforeReply()
	}
	return f.routes, nil
}

type memStats struct {
	mu   sync.Mutex
	last []models.RefreshStats
}

func (m *memStats) SetRefreshStats(_ context.Context, s models.RefreshStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, s)
	return nil
}

func p(lat, lng float64) *models.Point { return &models.Point{Lat: lat, Lng: lng} }

func newSource() *fakeSource {
	return &fakeSource{
		alerts: []models.Alert{
			{ID: "a1", District: "Chennai", Severity: models.SeverityHigh, Coordinates: p(13, 80)},
			{ID: "a2", District: "Chennai", Severity: "Unknown", Coordinates: p(13, 80)},
		},
		routes: []models.Route{
			{ID: "r1", Status: models.RouteOpen, StartPoint: p(13, 80), EndPoint: p(13.1, 80.1)},
		},
	}
}

func fastRetry(r *Refresher) {
	r.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}
}

func TestRefreshReplacesCatalogs(t *testing.T) {
	alerts, routes, stats := catalog.NewAlerts(), catalog.NewRoutes(), &memStats{}
	r := New("fake", newSource(), alerts, routes, stats)

	s, err := r.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, s.AlertsAccepted)
	assert.Equal(t, 1, s.AlertsRejected)
	assert.Equal(t, 1, s.RoutesAccepted)
	assert.Len(t, s.Rejections, 1)
	assert.Equal(t, 1, alerts.Len())
	assert.Equal(t, 1, routes.Len())

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, s, last)
	require.Len(t, stats.last, 1)
	assert.Equal(t, "fake", stats.last[0].Source)
}

func TestRefreshRetriesTransientErrors(t *testing.T) {
	src := newSource()
	src.alertFails = 2
	alerts := catalog.NewAlerts()
	r := New("fake", src, alerts, catalog.NewRoutes(), nil)
	fastRetry(r)

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), src.calls.Load())
	assert.Equal(t, 1, alerts.Len())
}

func TestRefreshFailureKeepsCatalog(t *testing.T) {
	alerts := catalog.NewAlerts()
	require.NoError(t, alerts.Ingest(models.Alert{ID: "keep", Severity: models.SeverityLow, Coordinates: p(1, 1)}))

	src := newSource()
	src.alertFails = 100
	stats := &memStats{}
	r := New("fake", src, alerts, catalog.NewRoutes(), stats)
	fastRetry(r)

	s, err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.NotEmpty(t, s.Error)
	_, ok := alerts.Get("keep")
	assert.True(t, ok)
	require.Len(t, stats.last, 1)
	assert.NotEmpty(t, stats.last[0].Error)
}

func TestCancelledRefreshIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newSource()
	src.beforeReply = cancel

	alerts, routes := catalog.NewAlerts(), catalog.NewRoutes()
	require.NoError(t, alerts.Ingest(models.Alert{ID: "keep", Severity: models.SeverityLow, Coordinates: p(1, 1)}))

	_, err := New("fake", src, alerts, routes, nil).Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, alerts.Len())
	assert.Zero(t, routes.Len())
}

func TestRunLoadsImmediatelyAndStops(t *testing.T) {
	alerts := catalog.NewAlerts()
	r := New("fake", newSource(), alerts, catalog.NewRoutes(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, "@every 1h") }()

	require.Eventually(t, func() bool { return alerts.Len() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRunRejectsBadSchedule(t *testing.T) {
	r := New("fake", newSource(), catalog.NewAlerts(), catalog.NewRoutes(), nil)
	assert.Error(t, r.Run(context.Background(), "every so often"))
}
