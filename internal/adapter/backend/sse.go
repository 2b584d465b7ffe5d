package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelten/logscope/internal/adapter/metrics"
	"github.com/avelten/logscope/internal/domain"
)

const (
	reconnectMinDelay = 1 * time.Second
	reconnectMaxDelay = 30 * time.Second
)

// FileWatcher consumes the backend's Server-Sent-Events stream of
// file-change notifications and fans them out on a channel. The connection
// is re-established with exponential backoff when it drops.
type FileWatcher struct {
	baseURL string
	project string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.ExplorerMetrics
	events  chan domain.FileChange
}

// NewFileWatcher creates a watcher for the given project path.
func NewFileWatcher(baseURL, project string, logger *slog.Logger, m *metrics.ExplorerMetrics) *FileWatcher {
	return &FileWatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		project: project,
		// The stream is long-lived, so no client timeout.
		http:    &http.Client{},
		logger:  logger.With("component", "file_watcher"),
		metrics: m,
		events:  make(chan domain.FileChange, 64),
	}
}

// Events returns the channel file-change notifications are delivered on.
// The channel is closed when Run returns.
func (w *FileWatcher) Events() <-chan domain.FileChange {
	return w.events
}

// Run connects to the stream and delivers events until ctx is cancelled.
func (w *FileWatcher) Run(ctx context.Context) {
	defer close(w.events)

	delay := reconnectMinDelay
	for {
		err := w.stream(ctx)
		if ctx.Err() != nil {
			return
		}
		if w.metrics != nil {
			w.metrics.SSEReconnects.Inc()
		}
		w.logger.Warn("file-change stream disconnected, reconnecting", "error", err, "delay", delay.String())

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}
}

func (w *FileWatcher) stream(ctx context.Context) error {
	q := url.Values{}
	q.Set("project", w.project)
	u := w.baseURL + "/api/logs/events?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("stream connect failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned %d", resp.StatusCode)
	}

	w.logger.Info("file-change stream connected")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		// SSE frames: only data lines carry a payload; comments and event
		// names are ignored. Blank lines terminate frames.
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var change domain.FileChange
		if err := json.Unmarshal([]byte(payload), &change); err != nil {
			w.logger.Warn("skipping malformed file-change event", "error", err)
			continue
		}
		if w.metrics != nil {
			w.metrics.SSEEventsTotal.WithLabelValues(change.ChangeType).Inc()
		}

		select {
		case w.events <- change:
		default:
			// Consumer is behind; drop rather than block the stream reader.
			w.logger.Warn("file-change event dropped, consumer is slow")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return fmt.Errorf("stream closed by backend")
}
