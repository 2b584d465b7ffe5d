package usecase

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/avelten/logscope/internal/domain"
)

// ExportFiltered fetches up to the configured export cap of entries matching
// the current filter snapshot in one shot, bypassing the incremental page
// size, and writes them as newline-delimited JSON, redacting configured
// context fields along the way. It is an independent
// query: the paginated view state (offset, hasMore, loaded entries) is never
// touched. The written file path is returned.
func (e *Explorer) ExportFiltered() (string, error) {
	e.mu.Lock()
	project := e.opts.Project
	file := e.selected
	filters := e.filters
	limit := e.opts.ExportLimit
	dir := e.opts.ExportDir
	ctx := e.ctx
	e.mu.Unlock()

	if project == "" || file == "" {
		return "", nil
	}

	page, err := e.source.Query(ctx, domain.QueryParams{
		Project: project,
		File:    file,
		Offset:  0,
		Limit:   limit,
		Filters: filters,
	})
	if err != nil {
		e.countExport("error")
		return "", fmt.Errorf("export query failed: %w", err)
	}

	name := fmt.Sprintf("logscope-export-%s-%s.ndjson",
		time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		e.countExport("error")
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, entry := range page.Entries {
		if e.redactor != nil {
			if err := e.redactor.Redact(&entry); err != nil {
				e.countExport("error")
				return "", fmt.Errorf("failed to redact entry %d: %w", entry.LineNumber, err)
			}
		}
		data, err := json.Marshal(entry)
		if err != nil {
			e.countExport("error")
			return "", fmt.Errorf("failed to marshal entry %d: %w", entry.LineNumber, err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			e.countExport("error")
			return "", fmt.Errorf("failed to write export file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		e.countExport("error")
		return "", fmt.Errorf("failed to flush export file: %w", err)
	}

	e.logger.Info("exported filtered entries", "file", file, "count", len(page.Entries), "path", path)
	e.countExport("ok")
	return path, nil
}

func (e *Explorer) countExport(status string) {
	if e.metrics != nil {
		e.metrics.ExportsTotal.WithLabelValues(status).Inc()
	}
}
