// Package resolver turns a requested object id into a normalized record,
// trying each candidate id against the catalog until one is found and
// falling back to a synthetic placeholder when none can be.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mr1hm/go-neo-impact/internal/models"
	"github.com/mr1hm/go-neo-impact/internal/observability"
)

// Fetcher looks up one candidate id. Implementations return an error
// wrapping models.ErrObjectNotFound when the catalog has no such object.
type Fetcher interface {
	Fetch(ctx context.Context, id, credential string) (models.NEORecord, error)
}

// Result is a resolved record plus the HTTP status it should be served with.
type Result struct {
	Record models.NEORecord
	Status int
}

const missingCredentialMessage = "NASA API key not configured: set NASA_API_KEY or NEOWS_API_KEY, " +
	"or pass the api_key query parameter or X-NASA-API-Key header; serving synthetic data"

type Resolver struct {
	fetcher Fetcher
	metrics *observability.Metrics
	logger  *slog.Logger
}

func New(fetcher Fetcher, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve never fails outright: when no live record can be produced it
// returns a synthetic one whose Status mirrors the underlying failure.
func (r *Resolver) Resolve(ctx context.Context, identifier, credential string) Result {
	identifier = strings.TrimSpace(identifier)

	if credential == "" {
		r.metrics.Resolutions.WithLabelValues("no_credential").Inc()
		return Result{Record: Synthetic(identifier, missingCredentialMessage, 0), Status: http.StatusOK}
	}

	var last attempt
	for _, candidate := range Candidates(identifier) {
		rec, err := r.fetcher.Fetch(ctx, candidate, credential)
		last = classify(candidate, err)

		if last.outcome == outcomeFound {
			r.metrics.Resolutions.WithLabelValues("catalog").Inc()
			rec.RequestedID = identifier
			rec.ResolvedID = &candidate
			return Result{Record: rec, Status: http.StatusOK}
		}
		if last.outcome == outcomeAborted {
			break
		}
		r.logger.Debug("catalog miss", "id", identifier, "candidate", candidate)
	}

	if last.outcome == outcomeAborted {
		r.metrics.Resolutions.WithLabelValues("upstream_error").Inc()
		r.logger.Warn("catalog lookup aborted", "id", identifier, "candidate", last.candidate, "status", last.status, "error", last.err)
	} else {
		r.metrics.Resolutions.WithLabelValues("not_found").Inc()
	}

	return Result{Record: Synthetic(identifier, last.diagnostic, last.status), Status: fallbackStatus(last.status)}
}

// fallbackStatus mirrors client and server errors. Anything else (no status,
// or an unexpected 1xx-3xx) would hide the synthetic body, so it becomes 502.
func fallbackStatus(upstream int) int {
	if upstream >= 400 && upstream <= 599 {
		return upstream
	}
	return http.StatusBadGateway
}

type outcome int

const (
	outcomeFound outcome = iota
	outcomeNotFound
	outcomeAborted
)

// attempt is the tagged result of asking the catalog for one candidate.
type attempt struct {
	candidate  string
	outcome    outcome
	status     int
	diagnostic string
	err        error
}

func classify(candidate string, err error) attempt {
	a := attempt{candidate: candidate, err: err}

	var upstream *models.UpstreamError
	switch {
	case err == nil:
		a.outcome = outcomeFound
	case errors.Is(err, models.ErrObjectNotFound):
		a.outcome = outcomeNotFound
		a.status = http.StatusNotFound
		a.diagnostic = notFoundDiagnostic(candidate)
	case errors.As(err, &upstream):
		a.outcome = outcomeAborted
		a.status = upstream.StatusCode
		a.diagnostic = fmt.Sprintf("catalog request for %s failed: %v", candidate, upstream)
	default:
		a.outcome = outcomeAborted
		a.diagnostic = fmt.Sprintf("catalog request for %s failed: %v", candidate, err)
	}

	return a
}

func notFoundDiagnostic(candidate string) string {
	return fmt.Sprintf("NeoWs has no object with id %s; short asteroid numbers map to SPK-IDs offset by %d (433 Eros is 2000433)",
		candidate, SPKOffset)
}
