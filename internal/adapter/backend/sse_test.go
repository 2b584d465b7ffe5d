package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelten/logscope/internal/domain"
)

func TestFileWatcherDeliversEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/logs/events" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("project"); got != "/proj" {
			t.Errorf("project param = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept header = %q", got)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprintf(w, ": heartbeat\n\n")
		fmt.Fprintf(w, "data: {\"file_path\": \"/proj/logs/app.log\", \"change_type\": \"modified\", \"timestamp\": \"2025-06-01T12:00:00Z\"}\n\n")
		fmt.Fprintf(w, "data: not-json\n\n")
		fmt.Fprintf(w, "data: {\"file_path\": \"/proj/logs/worker.log\", \"change_type\": \"created\", \"timestamp\": \"2025-06-01T12:00:01Z\"}\n\n")
		flusher.Flush()

		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := NewFileWatcher(server.URL, "/proj", testLogger(), nil)
	go watcher.Run(ctx)

	first := receiveChange(t, watcher.Events())
	if first.FilePath != "/proj/logs/app.log" || first.ChangeType != domain.ChangeModified {
		t.Errorf("unexpected first event: %+v", first)
	}

	// The malformed frame is skipped, so the next delivery is the third frame.
	second := receiveChange(t, watcher.Events())
	if second.FilePath != "/proj/logs/worker.log" || second.ChangeType != domain.ChangeCreated {
		t.Errorf("unexpected second event: %+v", second)
	}
}

func TestFileWatcherClosesChannelOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	watcher := NewFileWatcher(server.URL, "/proj", testLogger(), nil)

	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}

	if _, ok := <-watcher.Events(); ok {
		t.Error("expected events channel to be closed")
	}
}

func receiveChange(t *testing.T, ch <-chan domain.FileChange) domain.FileChange {
	t.Helper()
	select {
	case change, ok := <-ch:
		if !ok {
			t.Fatal("events channel closed unexpectedly")
		}
		return change
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a file-change event")
		return domain.FileChange{}
	}
}
