// Package prefetch keeps a configured watchlist of objects warm in the
// record cache and reports potentially hazardous ones as they refresh.
package prefetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-neo-impact/internal/config"
	"github.com/mr1hm/go-neo-impact/internal/observability"
	"github.com/mr1hm/go-neo-impact/internal/resolver"
	"github.com/mr1hm/go-neo-impact/internal/worker"
)

type Resolver interface {
	Resolve(ctx context.Context, identifier, credential string) resolver.Result
}

type Pruner interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type Manager struct {
	cfg      *config.Config
	resolver Resolver
	pruner   Pruner
	clock    clockwork.Clock
	metrics  *observability.Metrics
	logger   *slog.Logger
	pool     *worker.WorkerPool
	wg       sync.WaitGroup
}

// NewManager builds a refresher. pruner may be nil when the cache is off.
func NewManager(cfg *config.Config, res Resolver, pruner Pruner, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		cfg:      cfg,
		resolver: res,
		pruner:   pruner,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.pool = worker.NewWorkerPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, m.process, m.logger)
	m.pool.Start(ctx)

	m.wg.Add(1)
	go m.runPoller(ctx, m.cfg.Prefetch.Interval)
}

func (m *Manager) process(ctx context.Context, job worker.Job) error {
	id, ok := job.(string)
	if !ok {
		return fmt.Errorf("unexpected job type %T", job)
	}

	res := m.resolver.Resolve(ctx, id, m.cfg.EnvCredential())
	rec := res.Record
	if rec.IsSynthetic() {
		return fmt.Errorf("refresh %s returned status %d: %s", id, res.Status, rec.Message)
	}

	if rec.PotentiallyHazardous {
		m.logger.Warn("potentially hazardous object",
			"id", id,
			"name", rec.Name,
			"close_approach_date", rec.CloseApproachDate,
			"miss_distance_km", rec.MissDistanceKm,
			"diameter_m", rec.EstimatedDiameterM,
		)
		return nil
	}

	m.logger.Debug("refreshed object", "id", id, "name", rec.Name)
	return nil
}

func (m *Manager) runPoller(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()
	m.logger.Info("starting watchlist refresher", "objects", len(m.cfg.Prefetch.Watchlist), "interval", interval)

	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	// Initial poll
	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("watchlist refresher shutting down")
			return
		case <-ticker.Chan():
			m.poll(ctx)
		}
	}
}

func (m *Manager) poll(ctx context.Context) {
	m.prune(ctx)

	for _, id := range m.cfg.Prefetch.Watchlist {
		if err := m.pool.Submit(ctx, id); err != nil {
			m.logger.Debug("refresh interrupted", "error", err)
			return
		}
	}

	m.metrics.PrefetchRuns.Inc()
	m.logger.Debug("refresh queued", "count", len(m.cfg.Prefetch.Watchlist))
}

func (m *Manager) prune(ctx context.Context) {
	if m.pruner == nil {
		return
	}

	n, err := m.pruner.DeleteExpired(ctx, m.clock.Now().Add(-m.cfg.Cache.TTL))
	if err != nil {
		m.logger.Error("cache prune failed", "error", err)
		return
	}
	if n > 0 {
		m.metrics.PrefetchPruned.Add(float64(n))
		m.logger.Info("pruned expired cache entries", "count", n)
	}
}

// Stop waits for the poller and then drains the pool. Cancel the context
// passed to Start first.
func (m *Manager) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	m.logger.Info("watchlist refresher stopped")
}
