package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/avelten/logscope/internal/adapter/metrics"
	"github.com/avelten/logscope/internal/domain"
)

// Client is the HTTP implementation of domain.LogSource.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.ExplorerMetrics
}

// NewClient creates a backend client. The limiter bounds the request rate
// client-side so a tight render loop cannot hammer the backend.
func NewClient(baseURL string, limiter *rate.Limiter, logger *slog.Logger, m *metrics.ExplorerMetrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: limiter,
		logger:  logger.With("component", "backend_client"),
		metrics: m,
	}
}

// ListFiles returns the log files available under the project path.
func (c *Client) ListFiles(ctx context.Context, project string) ([]domain.LogFile, error) {
	q := url.Values{}
	q.Set("project", project)

	var resp struct {
		Files []domain.LogFile `json:"files"`
	}
	if err := c.get(ctx, "/api/logs/files", q, &resp); err != nil {
		c.count("files", err)
		return nil, err
	}
	c.count("files", nil)
	return resp.Files, nil
}

// Query returns one page of entries matching the given filters.
func (c *Client) Query(ctx context.Context, params domain.QueryParams) (domain.QueryPage, error) {
	q := url.Values{}
	q.Set("project", params.Project)
	q.Set("file", params.File)
	q.Set("offset", strconv.Itoa(params.Offset))
	q.Set("limit", strconv.Itoa(params.Limit))
	encodeFilters(q, params.Filters)

	start := time.Now()
	var page domain.QueryPage
	err := c.get(ctx, "/api/logs/entries", q, &page)
	if c.metrics != nil {
		c.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.count("entries", err)
		return domain.QueryPage{}, err
	}
	c.count("entries", nil)
	return page, nil
}

// Stats returns aggregate counts for a single file.
func (c *Client) Stats(ctx context.Context, project, file string) (domain.LogStats, error) {
	q := url.Values{}
	q.Set("project", project)
	q.Set("file", file)

	var stats domain.LogStats
	if err := c.get(ctx, "/api/logs/stats", q, &stats); err != nil {
		c.count("stats", err)
		return domain.LogStats{}, err
	}
	c.count("stats", nil)
	return stats, nil
}

func encodeFilters(q url.Values, f domain.LogFilters) {
	if f.Level != nil {
		q.Set("level", *f.Level)
	}
	if f.Category != nil {
		q.Set("category", *f.Category)
	}
	if f.Search != nil {
		q.Set("search", *f.Search)
	}
	if f.StartTime != nil {
		q.Set("start_time", f.StartTime.UTC().Format(time.RFC3339))
	}
	if f.EndTime != nil {
		q.Set("end_time", f.EndTime.UTC().Format(time.RFC3339))
	}
	if f.RunID != nil {
		q.Set("run_id", *f.RunID)
	}
	if f.LastRunOnly {
		q.Set("last_run_only", "true")
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	requestID := uuid.NewString()
	u := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("backend request failed", "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// readErrorBody extracts a human-readable message from an error response,
// preferring a JSON {"error": ...} body over the raw bytes.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

func (c *Client) count(endpoint string, err error) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.QueriesTotal.WithLabelValues(endpoint, status).Inc()
}
