// Package neows fetches near-Earth objects from NASA's NeoWs REST API and
// maps its payload onto models.NEORecord. NeoWs field names stay inside this
// package; callers only ever see the normalized record.
package neows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mr1hm/go-neo-impact/internal/models"
	"github.com/mr1hm/go-neo-impact/internal/observability"
)

// Client looks up single objects via GET {baseURL}/neo/{id}.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch returns the normalized record for id. A 404 yields an error wrapping
// models.ErrObjectNotFound; every other failure is a *models.UpstreamError.
func (c *Client) Fetch(ctx context.Context, id, apiKey string) (models.NEORecord, error) {
	params := url.Values{"api_key": {apiKey}}
	u := fmt.Sprintf("%s/neo/%s?%s", c.baseURL, url.PathEscape(id), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.NEORecord{}, &models.UpstreamError{Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.CatalogDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.CatalogRequests.WithLabelValues("error").Inc()
		return models.NEORecord{}, &models.UpstreamError{Err: fmt.Errorf("error while doing request for %s: %w", id, redact(err))}
	}
	defer resp.Body.Close()

	c.metrics.CatalogRequests.WithLabelValues(statusClass(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return models.NEORecord{}, fmt.Errorf("%w: %s", models.ErrObjectNotFound, id)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.NEORecord{}, &models.UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d - body: %s", resp.StatusCode, body),
		}
	}

	var data neoResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return models.NEORecord{}, &models.UpstreamError{Err: fmt.Errorf("error decoding resp.Body: %w", err)}
	}

	c.logger.Debug("catalog object fetched", "candidate", id, "name", data.Name)
	return toRecord(id, data), nil
}

// redact drops the request URL (which carries the api_key) from transport errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// NeoWs response types. Numeric fields are decoded loosely because NeoWs
// sends some as JSON numbers and others as strings.

type neoResponse struct {
	ID                     string             `json:"id"`
	NeoReferenceID         string             `json:"neo_reference_id"`
	Name                   string             `json:"name"`
	AbsoluteMagnitudeH     any                `json:"absolute_magnitude_h"`
	EstimatedDiameter      *estimatedDiameter `json:"estimated_diameter"`
	IsPotentiallyHazardous any                `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData      []*closeApproach   `json:"close_approach_data"`
	OrbitalData            *orbitalData       `json:"orbital_data"`
}

type estimatedDiameter struct {
	Meters *diameterRange `json:"meters"`
}

type diameterRange struct {
	Min any `json:"estimated_diameter_min"`
	Max any `json:"estimated_diameter_max"`
}

type closeApproach struct {
	CloseApproachDate string            `json:"close_approach_date"`
	RelativeVelocity  *relativeVelocity `json:"relative_velocity"`
	MissDistance      *missDistance     `json:"miss_distance"`
	OrbitingBody      string            `json:"orbiting_body"`
}

type relativeVelocity struct {
	KilometersPerSecond any `json:"kilometers_per_second"`
	KilometersPerHour   any `json:"kilometers_per_hour"`
}

type missDistance struct {
	Kilometers any `json:"kilometers"`
}

type orbitalData struct {
	SemiMajorAxis          any `json:"semi_major_axis"`
	Eccentricity           any `json:"eccentricity"`
	Inclination            any `json:"inclination"`
	MeanAnomaly            any `json:"mean_anomaly"`
	AscendingNodeLongitude any `json:"ascending_node_longitude"`
	OrbitalPeriod          any `json:"orbital_period"`
	MeanMotion             any `json:"mean_motion"`
	PerihelionDistance     any `json:"perihelion_distance"`
	AphelionDistance       any `json:"aphelion_distance"`
	EpochOsculation        any `json:"epoch_osculation"`
}
