package orrery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"
)

// DefaultNeoWsURL is the NASA NeoWs API base.
const DefaultNeoWsURL = "https://api.nasa.gov/neo/rest/v1"

// NeoClient fetches NeoWs records with a write-through local JSON cache.
// Successful responses are mirrored under DataDir (neo_all/ for feeds,
// neo_one/ for per-object lookups); when the upstream is unreachable the
// cache serves as fallback so the visualization keeps working offline.
type NeoClient struct {
	BaseURL string
	APIKey  string
	DataDir string

	HTTP    *http.Client
	Limiter *rate.Limiter
	Logger  log.Logger
}

// NewNeoClient builds a client from the runtime configuration.
func NewNeoClient(cfg Config, logger log.Logger) *NeoClient {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	base := cfg.FeedURL
	if base == "" {
		base = DefaultNeoWsURL
	}
	return &NeoClient{
		BaseURL: base,
		APIKey:  cfg.NASAAPIKey,
		DataDir: cfg.DataDir,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
		Logger:  logger,
	}
}

// Feed returns the NEO feed for the inclusive date range, both in ISO
// YYYY-MM-DD form.
func (c *NeoClient) Feed(ctx context.Context, startDate, endDate string) (*NeoFeed, error) {
	endpoint := fmt.Sprintf("%s/feed?start_date=%s&end_date=%s&api_key=%s",
		c.BaseURL, url.QueryEscape(startDate), url.QueryEscape(endDate), url.QueryEscape(c.APIKey))
	cachePath := filepath.Join(c.DataDir, "neo_all", fmt.Sprintf("%s_%s.json", startDate, endDate))

	var feed NeoFeed
	if err := c.getJSON(ctx, endpoint, cachePath, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// Lookup returns the full record, orbital data included, for one NEO.
func (c *NeoClient) Lookup(ctx context.Context, id string) (*NEO, error) {
	endpoint := fmt.Sprintf("%s/neo/%s?api_key=%s", c.BaseURL, url.PathEscape(id), url.QueryEscape(c.APIKey))
	cachePath := filepath.Join(c.DataDir, "neo_one", id+".json")

	var neo NEO
	if err := c.getJSON(ctx, endpoint, cachePath, &neo); err != nil {
		return nil, err
	}
	return &neo, nil
}

// PerObject returns the osculating elements of every object in the feed,
// keyed by object name. Objects whose lookup fails are skipped with a
// warning, matching the tolerant behavior expected by the frontend.
func (c *NeoClient) PerObject(ctx context.Context, startDate, endDate string) (map[string]*OrbitalData, error) {
	feed, err := c.Feed(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*OrbitalData)
	for _, stub := range feed.All() {
		neo, err := c.Lookup(ctx, stub.ID)
		if err != nil {
			level.Warn(c.Logger).Log("msg", "skipping NEO", "id", stub.ID, "err", err)
			continue
		}
		if neo.OrbitalData == nil {
			level.Warn(c.Logger).Log("msg", "NEO record has no orbital data", "id", stub.ID)
			continue
		}
		out[neo.Name] = neo.OrbitalData
	}
	return out, nil
}

// getJSON performs a rate-limited GET, mirrors the raw body into the cache
// on success, and falls back to the cache when the upstream fails.
func (c *NeoClient) getJSON(ctx context.Context, endpoint, cachePath string, v interface{}) error {
	raw, fetchErr := c.fetch(ctx, endpoint)
	if fetchErr == nil {
		if err := c.writeCache(cachePath, raw); err != nil {
			level.Warn(c.Logger).Log("msg", "cache write failed", "path", cachePath, "err", err)
		}
		return json.Unmarshal(raw, v)
	}

	cached, cacheErr := os.ReadFile(cachePath)
	if cacheErr != nil {
		return fmt.Errorf("fetch failed (%v) and no cached copy: %w", fetchErr, cacheErr)
	}
	level.Info(c.Logger).Log("msg", "serving cached copy", "path", cachePath, "fetch_err", fetchErr)
	return json.Unmarshal(cached, v)
}

func (c *NeoClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *NeoClient) writeCache(path string, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
