package neows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-neo-impact/internal/models"
	"github.com/mr1hm/go-neo-impact/internal/observability"
)

// Store persists catalog records keyed by candidate id.
type Store interface {
	GetRecord(ctx context.Context, id string) (rec models.NEORecord, fetchedAt time.Time, found bool, err error)
	PutRecord(ctx context.Context, id string, rec models.NEORecord, fetchedAt time.Time) error
}

type fetcher interface {
	Fetch(ctx context.Context, id, apiKey string) (models.NEORecord, error)
}

// CachedFetcher serves catalog records younger than ttl from a Store and
// falls through to the wrapped fetcher otherwise. Entries are keyed by
// candidate id and credential, so a key the catalog would reject never
// reads a record fetched with another one. Failures are never cached, so a
// not-found id is asked again on the next request.
type CachedFetcher struct {
	inner   fetcher
	store   Store
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewCachedFetcher(inner fetcher, store Store, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *CachedFetcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedFetcher{
		inner:   inner,
		store:   store,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, id, apiKey string) (models.NEORecord, error) {
	key := cacheKey(id, apiKey)

	rec, fetchedAt, found, err := c.store.GetRecord(ctx, key)
	switch {
	case err != nil:
		// Storage trouble only costs us a live fetch.
		c.logger.Warn("cache read failed", "candidate", id, "error", err)
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	case found && c.clock.Since(fetchedAt) < c.ttl:
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return rec, nil
	case found:
		c.metrics.CacheLookups.WithLabelValues("expired").Inc()
	default:
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	rec, err = c.inner.Fetch(ctx, id, apiKey)
	if err != nil {
		return rec, err
	}

	if err := c.store.PutRecord(ctx, key, rec, c.clock.Now()); err != nil {
		c.logger.Warn("cache write failed", "candidate", id, "error", err)
	}
	return rec, nil
}

// cacheKey never stores the credential itself.
func cacheKey(id, apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return id + ":" + hex.EncodeToString(sum[:8])
}
