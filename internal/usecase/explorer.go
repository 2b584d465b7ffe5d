package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avelten/logscope/internal/adapter/metrics"
	"github.com/avelten/logscope/internal/adapter/pii"
	"github.com/avelten/logscope/internal/domain"
)

const fallbackErrMsg = "failed to load log entries"

// Options configures an Explorer. File preselects a log file by name; the
// initial listing keeps it when it exists and falls back to the first
// available file otherwise.
type Options struct {
	Project        string
	File           string
	PageSize       int
	SearchDebounce time.Duration
	ExportLimit    int
	ExportDir      string
}

// State is a point-in-time snapshot of the explorer, safe to read after the
// call returns. Entries is shared and must be treated as read-only.
type State struct {
	Files         []domain.LogFile
	SelectedFile  string
	Entries       []domain.LogEntry
	Stats         domain.LogStats
	TotalCount    int
	Filters       domain.LogFilters
	Offset        int
	HasMore       bool
	IsLoading     bool
	IsLoadingMore bool
	Err           string

	// QueryGen identifies the query whose results are currently
	// materialized. It changes exactly when the entry array is replaced
	// wholesale, which is the renderer's cue to reset focus and expansion.
	QueryGen uint64
}

// Explorer keeps a locally materialized page (or accumulated pages) of log
// entries consistent with (project, selected file, filters). It owns the
// filter state, the pagination cursor and the debounce/supersession logic;
// rendering state lives with the renderer.
//
// All exported methods are safe for concurrent use. Fetches run on their own
// goroutines; responses belonging to a superseded query are discarded by
// comparing generation counters at apply time. In-flight requests are never
// aborted, they are read-only and idempotent.
type Explorer struct {
	source   domain.LogSource
	redactor *pii.Redactor
	logger   *slog.Logger
	metrics  *metrics.ExplorerMetrics
	opts     Options

	ctx context.Context

	mu            sync.Mutex
	gen           uint64 // bumped by every full-reload trigger
	queryGen      uint64 // generation currently materialized
	files         []domain.LogFile
	selected      string
	filters       domain.LogFilters
	loadedFilters domain.LogFilters // snapshot the materialized entries were fetched with
	entries       []domain.LogEntry
	stats         domain.LogStats
	totalCount    int
	offset        int
	hasMore       bool
	loading       bool
	loadingMore   bool
	errMsg        string

	searchTimer *time.Timer

	updates chan struct{}
}

// NewExplorer creates an Explorer over the given source. The redactor, when
// non-nil, is applied to entries written by ExportFiltered. Call Start to
// issue the initial file listing and entry load.
func NewExplorer(source domain.LogSource, redactor *pii.Redactor, logger *slog.Logger, m *metrics.ExplorerMetrics, opts Options) *Explorer {
	if opts.PageSize <= 0 {
		opts.PageSize = 500
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = 300 * time.Millisecond
	}
	if opts.ExportLimit <= 0 {
		opts.ExportLimit = 10000
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	return &Explorer{
		ctx:           context.Background(),
		source:        source,
		redactor:      redactor,
		logger:        logger.With("component", "explorer"),
		metrics:       m,
		opts:          opts,
		selected:      opts.File,
		filters:       domain.DefaultFilters(),
		loadedFilters: domain.DefaultFilters(),
		updates:       make(chan struct{}, 1),
	}
}

// Updates returns a coalescing notification channel: at least one value is
// delivered after any state change.
func (e *Explorer) Updates() <-chan struct{} {
	return e.updates
}

// State returns a snapshot of the current explorer state.
func (e *Explorer) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Files:         e.files,
		SelectedFile:  e.selected,
		Entries:       e.entries,
		Stats:         e.stats,
		TotalCount:    e.totalCount,
		Filters:       e.filters,
		Offset:        e.offset,
		HasMore:       e.hasMore,
		IsLoading:     e.loading,
		IsLoadingMore: e.loadingMore,
		Err:           e.errMsg,
		QueryGen:      e.queryGen,
	}
}

// Start issues the initial file listing and first entry load. ctx bounds all
// background fetches for the explorer's lifetime.
func (e *Explorer) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx = ctx
	e.startReloadLocked(true)
}

// Close cancels any pending debounced search fetch.
func (e *Explorer) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.searchTimer != nil {
		e.searchTimer.Stop()
		e.searchTimer = nil
	}
}

// SetFilters shallow-merges the patch into the current filters. A patch that
// touches only the free-text search field is debounced; every other patch
// reloads immediately and leaves a pending search debounce timer untouched.
func (e *Explorer) SetFilters(patch domain.FilterPatch) {
	e.mu.Lock()
	defer e.mu.Unlock()

	merged := e.filters.Merge(patch)
	if merged.Equal(e.filters) {
		return
	}
	e.filters = merged

	if patch.SearchOnly() {
		e.restartSearchTimerLocked()
		e.notifyLocked()
		return
	}
	e.startReloadLocked(false)
}

// ResetFilters replaces the filter object with its documented default and
// reloads. A pending debounced search fetch is cancelled: the wholesale
// replacement supersedes it.
func (e *Explorer) ResetFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.searchTimer != nil {
		e.searchTimer.Stop()
		e.searchTimer = nil
	}
	if !e.filters.HasActive() {
		return
	}
	e.filters = domain.DefaultFilters()
	e.startReloadLocked(false)
}

// SelectFile switches the explorer to another file and reloads from offset 0.
func (e *Explorer) SelectFile(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if name == e.selected {
		return
	}
	e.selected = name
	e.startReloadLocked(false)
}

// SetProject switches the project path, refreshing the file list and
// discarding the current selection.
func (e *Explorer) SetProject(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if path == e.opts.Project {
		return
	}
	e.opts.Project = path
	e.selected = ""
	e.startReloadLocked(true)
}

// Refresh re-issues the current full query: file list, stats and the first
// page of entries, without changing filters. If the selected file no longer
// exists it falls back to the first available file.
func (e *Explorer) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startReloadLocked(true)
}

// LoadMore fetches the next page using the same filter snapshot as the
// currently loaded page and appends it. Calls are ignored while another load
// is in flight, when no more pages exist, while a full reload is running, or
// when the filters diverged from the loaded page's snapshot (a debounced
// search fetch is pending and its reload supersedes pagination); a stale
// response that lost the race against a newer query is discarded.
func (e *Explorer) LoadMore() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loadingMore || e.loading || !e.hasMore {
		return
	}
	if e.opts.Project == "" || e.selected == "" {
		return
	}
	if !e.filters.Equal(e.loadedFilters) {
		return
	}

	e.loadingMore = true
	g := e.gen
	next := e.offset + e.opts.PageSize
	params := domain.QueryParams{
		Project: e.opts.Project,
		File:    e.selected,
		Offset:  next,
		Limit:   e.opts.PageSize,
		Filters: e.loadedFilters,
	}
	e.notifyLocked()

	go e.fetchMore(g, next, params)
}

func (e *Explorer) fetchMore(g uint64, next int, params domain.QueryParams) {
	page, err := e.source.Query(e.ctx, params)

	e.mu.Lock()
	defer e.mu.Unlock()

	if g != e.gen {
		// A full reload superseded this page; the reload wins.
		e.loadingMore = false
		return
	}
	e.loadingMore = false

	if err != nil {
		e.errMsg = errString(err)
		e.logger.Error("load more failed", "file", params.File, "offset", next, "error", err)
		e.notifyLocked()
		return
	}

	e.entries = append(e.entries, page.Entries...)
	e.offset = next
	e.hasMore = page.HasMore
	e.totalCount = page.TotalCount
	e.errMsg = ""
	if e.metrics != nil {
		e.metrics.EntriesLoaded.Add(float64(len(page.Entries)))
	}
	e.notifyLocked()
}

// startReloadLocked begins a fresh query generation: the response replaces
// the entry array and resets the cursor to 0. Callers hold e.mu.
func (e *Explorer) startReloadLocked(listFiles bool) {
	e.gen++
	g := e.gen

	project := e.opts.Project
	file := e.selected
	filters := e.filters

	if project == "" || (file == "" && !listFiles) {
		// Precondition not met; silently skip, not an error. Any response
		// still in flight belongs to an older generation and is discarded.
		e.loading = false
		e.notifyLocked()
		return
	}

	e.loading = true
	e.notifyLocked()
	go e.fetchFull(g, project, file, filters, listFiles)
}

// fetchFull runs one full query chain: optional file listing (with fallback
// when the selection vanished), first entry page, stats. The result is
// applied only if the generation is still current.
func (e *Explorer) fetchFull(g uint64, project, file string, filters domain.LogFilters, listFiles bool) {
	selected := file
	if listFiles {
		files, listErr := e.source.ListFiles(e.ctx, project)
		if listErr != nil {
			e.mu.Lock()
			defer e.mu.Unlock()
			if g != e.gen {
				return
			}
			e.loading = false
			e.errMsg = errString(listErr)
			e.logger.Error("file listing failed", "project", project, "error", listErr)
			e.notifyLocked()
			return
		}
		selected = pickFile(files, file)

		// Publish the listing and (possibly fallback) selection before the
		// entry fetch, so interleaved filter changes query the right file.
		e.mu.Lock()
		if g != e.gen {
			e.mu.Unlock()
			return
		}
		e.files = files
		e.selected = selected
		if selected == "" {
			// Nothing to load; an empty project is an empty result, not an
			// error.
			e.entries = []domain.LogEntry{}
			e.stats = domain.LogStats{}
			e.totalCount = 0
			e.offset = 0
			e.hasMore = false
			e.loading = false
			e.errMsg = ""
			e.loadedFilters = filters
			e.queryGen = g
			e.notifyLocked()
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
	}

	page, queryErr := e.source.Query(e.ctx, domain.QueryParams{
		Project: project,
		File:    selected,
		Offset:  0,
		Limit:   e.opts.PageSize,
		Filters: filters,
	})
	stats, statsErr := e.source.Stats(e.ctx, project, selected)

	e.mu.Lock()
	defer e.mu.Unlock()

	if g != e.gen {
		// Superseded by a newer query; discard this response.
		return
	}
	e.loading = false

	if queryErr != nil {
		// First load of a new query: clear alongside the error.
		e.entries = []domain.LogEntry{}
		e.totalCount = 0
		e.offset = 0
		e.hasMore = false
		e.errMsg = errString(queryErr)
		e.loadedFilters = filters
		e.queryGen = g
		e.logger.Error("entry load failed", "file", selected, "error", queryErr)
		e.notifyLocked()
		return
	}

	e.entries = page.Entries
	if e.entries == nil {
		e.entries = []domain.LogEntry{}
	}
	e.totalCount = page.TotalCount
	e.hasMore = page.HasMore
	e.offset = 0
	e.errMsg = ""
	e.loadedFilters = filters
	e.queryGen = g

	if statsErr != nil {
		// Stale stats are tolerable; the entry list stays authoritative.
		e.errMsg = errString(statsErr)
		e.logger.Warn("stats load failed", "file", selected, "error", statsErr)
	} else {
		e.stats = stats
	}

	if e.metrics != nil {
		e.metrics.EntriesLoaded.Add(float64(len(page.Entries)))
	}
	e.notifyLocked()
}

// restartSearchTimerLocked implements the single-slot debounce: starting a
// new timer cancels any pending one, so only the last value within the quiet
// window triggers a fetch.
func (e *Explorer) restartSearchTimerLocked() {
	if e.searchTimer != nil {
		e.searchTimer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(e.opts.SearchDebounce, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.searchTimer != t {
			// A newer keystroke restarted the window after this fired.
			return
		}
		e.searchTimer = nil
		e.startReloadLocked(false)
	})
	e.searchTimer = t
}

func (e *Explorer) notifyLocked() {
	select {
	case e.updates <- struct{}{}:
	default:
	}
}

// pickFile keeps the current selection when it still exists, otherwise falls
// back to the first available file.
func pickFile(files []domain.LogFile, current string) string {
	for _, f := range files {
		if f.Name == current {
			return current
		}
	}
	if len(files) > 0 {
		return files[0].Name
	}
	return ""
}

func errString(err error) string {
	if err == nil || err.Error() == "" {
		return fallbackErrMsg
	}
	return err.Error()
}
