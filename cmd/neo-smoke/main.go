// Command neo-smoke checks a running neo-impact server end to end: one
// simulation and one object lookup.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-neo-impact/internal/api"
	"github.com/mr1hm/go-neo-impact/internal/logging"
)

const requestTimeout = 10 * time.Second

var (
	simulationKeys = []string{"kinetic_energy_j", "tnt_equivalent_tons", "crater_diameter_m", "seismic_magnitude_mw"}
	neoKeys        = []string{"name", "source", "estimated_diameter_max_m"}
)

type checker struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	out        io.Writer
}

func main() {
	_ = godotenv.Load()
	logging.Setup(envOr("LOG_LEVEL", "info"), "text")

	c := &checker{
		baseURL:    strings.TrimRight(envOr("API_BASE", "http://localhost:5000"), "/"),
		apiKey:     strings.TrimSpace(os.Getenv("NASA_API_KEY")),
		httpClient: &http.Client{Timeout: requestTimeout},
		out:        os.Stdout,
	}
	neoID := envOr("NASA_NEO_ID", "3542519")

	slog.Info("running smoke check", "api_base", c.baseURL, "neo_id", neoID)
	if err := c.run(context.Background(), neoID); err != nil {
		logging.Fatalf("smoke check failed: %v", err)
	}
	slog.Info("smoke check passed")
}

func (c *checker) run(ctx context.Context, neoID string) error {
	sim, err := c.checkSimulation(ctx)
	if err != nil {
		return err
	}
	c.print("/simulate-impact", sim)

	neo, err := c.checkNEO(ctx, neoID)
	if err != nil {
		return err
	}
	c.print("/neo/"+neoID, neo)
	return nil
}

func (c *checker) checkSimulation(ctx context.Context) (map[string]any, error) {
	body, err := json.Marshal(map[string]float64{"diameter": 180, "velocity": 21, "density": 2800})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/simulate-impact", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("simulate-impact: %w", err)
	}
	if err := requireKeys(data, simulationKeys); err != nil {
		return nil, fmt.Errorf("simulate-impact: %w", err)
	}
	return data, nil
}

func (c *checker) checkNEO(ctx context.Context, id string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/neo/"+id, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set(api.APIKeyHeader, c.apiKey)
	}

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("/neo/%s: %w", id, err)
	}
	if err := requireKeys(data, neoKeys); err != nil {
		return nil, fmt.Errorf("/neo/%s: %w", id, err)
	}
	return data, nil
}

func (c *checker) do(req *http.Request) (map[string]any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return data, nil
}

func (c *checker) print(label string, payload map[string]any) {
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintf(c.out, "\n%s\n%s\n", label, pretty)
}

func requireKeys(data map[string]any, keys []string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := data[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("payload missing keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
