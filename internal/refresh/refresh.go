package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"flood-watch/internal/catalog"
	"flood-watch/internal/feed"
	"flood-watch/internal/logger"
	"flood-watch/internal/models"
)

const maxRejections = 20

// StatsStore persists refresh statistics. *cache.Cache implements it.
type StatsStore interface {
	SetRefreshStats(ctx context.Context, s models.RefreshStats) error
}

// Refresher reloads the catalogs from a feed source. It is the single writer
// of both catalogs.
type Refresher struct {
	name   string
	src    feed.Source
	alerts *catalog.Alerts
	routes *catalog.Routes
	stats  StatsStore

	newBackOff func() backoff.BackOff

	mu   sync.Mutex
	last atomic.Pointer[models.RefreshStats]
}

// New creates a Refresher. stats may be nil.
func New(name string, src feed.Source, alerts *catalog.Alerts, routes *catalog.Routes, stats StatsStore) *Refresher {
	return &Refresher{
		name:   name,
		src:    src,
		alerts: alerts,
		routes: routes,
		stats:  stats,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 15 * time.Second
			return backoff.WithMaxRetries(b, 3)
		},
	}
}

// Last returns the statistics of the most recent refresh.
func (r *Refresher) Last() (models.RefreshStats, bool) {
	s := r.last.Load()
	if s == nil {
		return models.RefreshStats{}, false
	}
	return *s, true
}

// Refresh loads both collections in parallel and replaces the catalogs. If
// loading fails or ctx is cancelled before the swap, the catalogs are left
// untouched.
func (r *Refresher) Refresh(ctx context.Context) (models.RefreshStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := models.RefreshStats{Source: r.name, StartedAt: time.Now()}

	var (
		alerts []models.Alert
		routes []models.Route
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return r.retry(egCtx, func() (err error) {
			alerts, err = r.src.LoadAlerts(egCtx)
			return err
		})
	})
	eg.Go(func() error {
		return r.retry(egCtx, func() (err error) {
			routes, err = r.src.LoadRoutes(egCtx)
			return err
		})
	})

	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		err = fmt.Errorf("refresh from %s: %w", r.name, err)
		stats.Error = err.Error()
		stats.Duration = time.Since(stats.StartedAt)
		r.record(ctx, stats)
		return stats, err
	}

	ar := r.alerts.Replace(alerts)
	rr := r.routes.Replace(routes)

	stats.AlertsAccepted, stats.AlertsRejected = ar.Accepted, ar.Rejected
	stats.RoutesAccepted, stats.RoutesRejected = rr.Accepted, rr.Rejected
	stats.Rejections = append(ar.Reasons(), rr.Reasons()...)
	if len(stats.Rejections) > maxRejections {
		stats.Rejections = stats.Rejections[:maxRejections]
	}
	stats.Duration = time.Since(stats.StartedAt)

	if ar.Rejected+rr.Rejected > 0 {
		logger.Warnf(ctx, "refresh: rejected %d alerts and %d routes from %s", ar.Rejected, rr.Rejected, r.name)
	}
	logger.Debugf(ctx, "refresh: %d alerts, %d routes from %s in %s", ar.Accepted, rr.Accepted, r.name, stats.Duration)

	r.record(ctx, stats)
	return stats, nil
}

func (r *Refresher) retry(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		err := op()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(r.newBackOff(), ctx))
}

func (r *Refresher) record(ctx context.Context, s models.RefreshStats) {
	r.last.Store(&s)
	if r.stats == nil {
		return
	}
	// The caller's ctx may already be cancelled; stats are still worth keeping.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := r.stats.SetRefreshStats(storeCtx, s); err != nil {
		logger.Warnf(ctx, "refresh: store stats: %v", err)
	}
}

// Run refreshes once immediately, then on every tick of the cron schedule
// until ctx is done.
func (r *Refresher) Run(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
			logger.Errorf(ctx, "refresh: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("refresh schedule %q: %w", schedule, err)
	}

	if _, err := r.Refresh(ctx); err != nil {
		logger.Errorf(ctx, "refresh: initial load: %v", err)
	}

	c.Start()
	logger.Infof(ctx, "refresh: scheduled %q from %s", schedule, r.name)

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Infof(ctx, "refresh: stopped")
	return nil
}
