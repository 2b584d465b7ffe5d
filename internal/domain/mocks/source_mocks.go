package mocks

import (
	"context"
	"sync"

	"github.com/avelten/logscope/internal/domain"
)

// MockLogSource is a mock implementation of domain.LogSource for testing.
// Behavior is overridable per method via func fields; when a func field is
// nil the canned result fields are returned instead. Every Query call is
// recorded so tests can assert on fetch counts and parameters.
type MockLogSource struct {
	mu sync.Mutex

	Files      []domain.LogFile
	ListErr    error
	Page       domain.QueryPage
	QueryErr   error
	FileStats  domain.LogStats
	StatsErr   error
	QueryFunc  func(ctx context.Context, params domain.QueryParams) (domain.QueryPage, error)
	QueryCalls []domain.QueryParams
	ListCalls  int
	StatsCalls int
}

func (m *MockLogSource) ListFiles(ctx context.Context, project string) ([]domain.LogFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Files, nil
}

func (m *MockLogSource) Query(ctx context.Context, params domain.QueryParams) (domain.QueryPage, error) {
	m.mu.Lock()
	m.QueryCalls = append(m.QueryCalls, params)
	fn := m.QueryFunc
	page, err := m.Page, m.QueryErr
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, params)
	}
	if err != nil {
		return domain.QueryPage{}, err
	}
	return page, nil
}

func (m *MockLogSource) Stats(ctx context.Context, project, file string) (domain.LogStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatsCalls++
	if m.StatsErr != nil {
		return domain.LogStats{}, m.StatsErr
	}
	return m.FileStats, nil
}

// SetFiles replaces the canned file listing, e.g. to simulate a file being
// deleted server-side between refreshes.
func (m *MockLogSource) SetFiles(files []domain.LogFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files = files
}

// Queries returns a snapshot of the recorded query parameters.
func (m *MockLogSource) Queries() []domain.QueryParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QueryParams, len(m.QueryCalls))
	copy(out, m.QueryCalls)
	return out
}
