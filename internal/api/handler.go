package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-neo-impact/internal/impact"
	"github.com/mr1hm/go-neo-impact/internal/models"
	"github.com/mr1hm/go-neo-impact/internal/numparse"
	"github.com/mr1hm/go-neo-impact/internal/observability"
	"github.com/mr1hm/go-neo-impact/internal/resolver"
)

// APIKeyHeader carries a per-request NASA credential.
const APIKeyHeader = "X-NASA-API-Key"

type Resolver interface {
	Resolve(ctx context.Context, identifier, credential string) resolver.Result
}

type Handler struct {
	resolver       Resolver
	envCredentials []string
	metrics        *observability.Metrics
}

// NewHandler takes the environment credentials in precedence order; they
// are consulted after the query parameter and header.
func NewHandler(res Resolver, envCredentials []string, metrics *observability.Metrics) *Handler {
	return &Handler{
		resolver:       res,
		envCredentials: envCredentials,
		metrics:        metrics,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/neo/:identifier", h.getNEO)
	r.POST("/simulate-impact", h.simulateImpact)
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) getNEO(c *gin.Context) {
	sources := append([]string{c.Query("api_key"), c.GetHeader(APIKeyHeader)}, h.envCredentials...)
	credential := resolver.ResolveCredential(sources...)

	res := h.resolver.Resolve(c.Request.Context(), c.Param("identifier"), credential)
	c.JSON(res.Status, res.Record)
}

type simulateResponse struct {
	models.ImpactResult
	CraterFootprint *Feature `json:"crater_footprint,omitempty"`
}

func (h *Handler) simulateImpact(c *gin.Context) {
	body, err := decodeObject(c)
	if errors.Is(err, errBodyTooLarge) {
		h.metrics.Simulations.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.rejectSimulation(c, err)
		return
	}

	p := impact.DefaultParameters()
	fields := []struct {
		key string
		dst *float64
	}{
		{"diameter", &p.DiameterM},
		{"velocity", &p.VelocityKmS},
		{"density", &p.DensityKgM3},
		{"delta_v", &p.DeltaVKmS},
	}
	for _, f := range fields {
		v, present, err := numberField(body, f.key)
		if err != nil {
			h.rejectSimulation(c, err)
			return
		}
		if present {
			*f.dst = v
		}
	}

	lat, hasLat, err := numberField(body, "lat")
	if err != nil {
		h.rejectSimulation(c, err)
		return
	}
	lng, hasLng, err := numberField(body, "lng")
	if err != nil {
		h.rejectSimulation(c, err)
		return
	}
	if hasLat != hasLng {
		h.rejectSimulation(c, errors.New("lat and lng must be given together"))
		return
	}

	result, err := impact.Simulate(p)
	if err != nil {
		h.rejectSimulation(c, err)
		return
	}

	resp := simulateResponse{ImpactResult: result}
	if hasLat {
		ring, err := impact.CraterRing(lat, lng, result.CraterDiameterM)
		if err != nil {
			h.rejectSimulation(c, err)
			return
		}
		feature := toFootprintFeature(ring, lat, lng, result)
		resp.CraterFootprint = &feature
	}

	h.metrics.Simulations.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) rejectSimulation(c *gin.Context, err error) {
	h.metrics.Simulations.WithLabelValues("invalid").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// maxBodyBytes bounds /simulate-impact bodies; a full request is well under 1 KiB.
const maxBodyBytes = 64 << 10

var errBodyTooLarge = fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)

// decodeObject reads the request body as a single JSON object. An empty body
// is an empty object; trailing data after the object is rejected.
func decodeObject(c *gin.Context) (map[string]any, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("error reading request body: %w", err)
	}

	body := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, errors.New("request body must be a JSON object")
	}
	if dec.More() {
		return nil, errors.New("request body must contain a single JSON object")
	}
	return body, nil
}

// numberField reports a field's numeric value. Absent and null fields are not
// present; anything else must parse as a finite number.
func numberField(body map[string]any, key string) (float64, bool, error) {
	v, ok := body[key]
	if !ok || v == nil {
		return 0, false, nil
	}

	f := numparse.Float(v)
	if f == nil {
		return 0, false, fmt.Errorf("%s must be a finite number", key)
	}
	return *f, true, nil
}
