package domain

import "context"

// QueryParams identifies one entries query against a log source.
type QueryParams struct {
	Project string
	File    string
	Offset  int
	Limit   int
	Filters LogFilters
}

// LogSource defines the read-only backend contract the explorer consumes.
// The HTTP client is the production implementation; tests substitute mocks.
type LogSource interface {
	// ListFiles returns the log files available under the project path.
	ListFiles(ctx context.Context, project string) ([]LogFile, error)

	// Query returns one page of entries matching the given filters.
	Query(ctx context.Context, params QueryParams) (QueryPage, error)

	// Stats returns aggregate counts for a single file.
	Stats(ctx context.Context, project, file string) (LogStats, error)
}
