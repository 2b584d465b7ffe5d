package domain

import (
	"encoding/json"
	"time"
)

// LogEntry is a read-only projection of one backend log line. LineNumber is
// the stable identity of the entry within its file and is used as the
// virtualization and expansion key.
type LogEntry struct {
	LineNumber int             `json:"lineNumber"`
	Timestamp  time.Time       `json:"timestamp"`
	Level      string          `json:"level"`
	Category   string          `json:"category,omitempty"`
	Message    string          `json:"message"`
	Context    json.RawMessage `json:"context,omitempty"`
	DurationMs *float64        `json:"durationMs,omitempty"`
	Exception  string          `json:"exception,omitempty"`
}

// LogFile describes one log file available under a project path.
type LogFile struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
}

// LogStats holds aggregate counts for a single file.
type LogStats struct {
	TotalLines int              `json:"totalLines"`
	Levels     map[string]int64 `json:"levels"`
}

// QueryPage is one page of a paginated entries query.
type QueryPage struct {
	Entries    []LogEntry `json:"entries"`
	TotalCount int        `json:"totalCount"`
	HasMore    bool       `json:"hasMore"`
}

// FileChange is one notification from the backend's file-change stream.
type FileChange struct {
	FilePath   string    `json:"file_path"`
	ChangeType string    `json:"change_type"`
	Timestamp  time.Time `json:"timestamp"`
}

// Change types reported on the file-change stream.
const (
	ChangeCreated  = "created"
	ChangeModified = "modified"
	ChangeDeleted  = "deleted"
)
