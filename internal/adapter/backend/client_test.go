package backend

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avelten/logscope/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientQuery(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/logs/entries" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"entries": [
				{"lineNumber": 7, "timestamp": "2025-06-01T12:00:00Z", "level": "ERROR", "category": "agent.run", "message": "boom", "durationMs": 12.5},
				{"lineNumber": 9, "timestamp": "2025-06-01T12:00:01Z", "level": "ERROR", "message": "boom again"}
			],
			"totalCount": 2,
			"hasMore": false
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, testLogger(), nil)

	level := "ERROR"
	search := "boom"
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	page, err := client.Query(context.Background(), domain.QueryParams{
		Project: "/proj",
		File:    "app.log",
		Offset:  500,
		Limit:   500,
		Filters: domain.LogFilters{
			Level:       &level,
			Search:      &search,
			StartTime:   &start,
			LastRunOnly: true,
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(page.Entries) != 2 || page.TotalCount != 2 || page.HasMore {
		t.Errorf("unexpected page: %+v", page)
	}
	if page.Entries[0].LineNumber != 7 || page.Entries[0].DurationMs == nil || *page.Entries[0].DurationMs != 12.5 {
		t.Errorf("unexpected first entry: %+v", page.Entries[0])
	}

	want := map[string]string{
		"project":       "/proj",
		"file":          "app.log",
		"offset":        "500",
		"limit":         "500",
		"level":         "ERROR",
		"search":        "boom",
		"start_time":    "2025-06-01T00:00:00Z",
		"last_run_only": "true",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query param %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	for _, absent := range []string{"category", "end_time", "run_id"} {
		if _, ok := gotQuery[absent]; ok {
			t.Errorf("expected unset filter %s to be omitted from the query", absent)
		}
	}
}

func TestClientListFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/logs/files" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("project"); got != "/proj" {
			t.Errorf("project param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files": [{"name": "app.log", "path": "/proj/logs/app.log", "sizeBytes": 2048}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, testLogger(), nil)
	files, err := client.ListFiles(context.Background(), "/proj")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(files) != 1 || files[0].Name != "app.log" || files[0].SizeBytes != 2048 {
		t.Errorf("unexpected files: %+v", files)
	}
}

func TestClientStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalLines": 1234, "levels": {"ERROR": 12, "INFO": 1200}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, testLogger(), nil)
	stats, err := client.Stats(context.Background(), "/proj", "app.log")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalLines != 1234 || stats.Levels["ERROR"] != 12 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantSnippet string
	}{
		{
			name:        "JSON Error Body",
			status:      http.StatusBadRequest,
			body:        `{"error": "invalid time range"}`,
			wantSnippet: "invalid time range",
		},
		{
			name:        "Plain Text Body",
			status:      http.StatusInternalServerError,
			body:        "parser blew up",
			wantSnippet: "parser blew up",
		},
		{
			name:        "Empty Body",
			status:      http.StatusBadGateway,
			body:        "",
			wantSnippet: "no response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil, testLogger(), nil)
			_, err := client.Query(context.Background(), domain.QueryParams{Project: "/proj", File: "a.log", Limit: 10})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantSnippet) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantSnippet)
			}
		})
	}
}
