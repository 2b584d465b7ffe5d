package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/avelten/logscope/internal/domain"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return b.String()
}

func (m Model) renderHeader() string {
	file := m.st.SelectedFile
	if file == "" {
		file = "(no file)"
	}

	parts := []string{
		m.styles.Header.Render("logscope"),
		m.styles.FileName.Render(file),
	}
	if m.st.Stats.TotalLines > 0 {
		parts = append(parts, m.styles.Timestamp.Render(fmt.Sprintf("%d lines", m.st.Stats.TotalLines)))
		parts = append(parts, m.styles.Timestamp.Render(levelCounts(m.st.Stats.Levels)))
	}
	if m.st.Filters.HasActive() {
		parts = append(parts, m.styles.FilterTag.Render("filters: "+filterSummary(m.st.Filters)))
	}
	return strings.Join(parts, "  ")
}

// renderList renders the windowed entry list. The presentation states are
// mutually exclusive and checked in order: loading, empty, populated.
func (m Model) renderList() string {
	height := m.listHeight()

	if m.st.IsLoading {
		return padLines(m.spin.View()+" loading entries...", height)
	}
	if len(m.st.Entries) == 0 {
		if m.st.Err != "" {
			return padLines(m.styles.ErrorText.Render("error: "+m.st.Err), height)
		}
		if m.st.Filters.HasActive() {
			return padLines(m.styles.EmptyText.Render("no entries match the current filters"), height)
		}
		return padLines(m.styles.EmptyText.Render("no entries"), height)
	}

	size := m.sizeFunc()
	count := len(m.st.Entries)
	start, end := Visible(m.scroll, height, count, overscan, size)

	var lines []string
	for i := start; i <= end; i++ {
		lines = append(lines, m.renderEntry(i, size(i))...)
	}

	// Clip the overscanned render to the viewport.
	skip := m.scroll - OffsetOf(start, size)
	if skip < 0 {
		skip = 0
	}
	if skip > len(lines) {
		skip = len(lines)
	}
	lines = lines[skip:]
	if len(lines) > height {
		lines = lines[:height]
	}

	return padLines(strings.Join(lines, "\n"), height)
}

// renderEntry renders one entry as exactly rows lines.
func (m Model) renderEntry(i, rows int) []string {
	entry := m.st.Entries[i]
	focused := i == m.nav.Focused()

	ts := entry.Timestamp.Format("15:04:05.000")
	head := fmt.Sprintf("%s %s %s %s",
		m.styles.Timestamp.Render(ts),
		m.styles.Level(entry.Level).Render(fmt.Sprintf("%-8s", entry.Level)),
		m.styles.Category.Render(entry.Category),
		truncate(entry.Message, m.width-30),
	)
	if entry.DurationMs != nil {
		head += m.styles.Timestamp.Render(fmt.Sprintf(" (%.1fms)", *entry.DurationMs))
	}
	if focused {
		head = m.styles.Focused.Render("> ") + head
	} else {
		head = "  " + head
	}

	lines := []string{head}
	if rows <= collapsedRows {
		return lines
	}

	for _, detail := range m.entryDetail(entry) {
		if len(lines) >= rows {
			break
		}
		lines = append(lines, m.styles.Expanded.Render(truncate(detail, m.width-6)))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) entryDetail(entry domain.LogEntry) []string {
	details := []string{fmt.Sprintf("line %d", entry.LineNumber)}
	if entry.Exception != "" {
		details = append(details, strings.Split(entry.Exception, "\n")...)
	}
	if len(entry.Context) > 0 {
		var pretty map[string]any
		if err := json.Unmarshal(entry.Context, &pretty); err == nil {
			keys := make([]string, 0, len(pretty))
			for k := range pretty {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				details = append(details, fmt.Sprintf("%s: %v", k, pretty[k]))
			}
		} else {
			details = append(details, string(entry.Context))
		}
	}
	return details
}

func (m Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d/%d entries", len(m.st.Entries), m.st.TotalCount))
	if m.st.IsLoadingMore {
		parts = append(parts, "loading more...")
	} else if m.st.HasMore {
		parts = append(parts, "more available")
	}
	if m.st.Err != "" && len(m.st.Entries) > 0 {
		// Stale data stays visible; the error rides along in the status bar.
		parts = append(parts, m.styles.ErrorText.Render("error: "+m.st.Err))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	return m.styles.StatusBar.Width(m.width).Render(" " + strings.Join(parts, "  ") + " ")
}

func filterSummary(f domain.LogFilters) string {
	var parts []string
	if f.Level != nil {
		parts = append(parts, "level="+*f.Level)
	}
	if f.Category != nil {
		parts = append(parts, "category="+*f.Category)
	}
	if f.Search != nil {
		parts = append(parts, "search="+*f.Search)
	}
	if f.StartTime != nil {
		parts = append(parts, "from="+f.StartTime.Format(time.RFC3339))
	}
	if f.EndTime != nil {
		parts = append(parts, "until="+f.EndTime.Format(time.RFC3339))
	}
	if f.RunID != nil {
		parts = append(parts, "run="+*f.RunID)
	}
	if f.LastRunOnly {
		parts = append(parts, "last-run")
	}
	return strings.Join(parts, " ")
}

func levelCounts(levels map[string]int64) string {
	if len(levels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, levels[k]))
	}
	return strings.Join(parts, " ")
}

// truncate clips s to max display cells, never splitting a rune.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	return runewidth.Truncate(s, max, "...")
}

func padLines(s string, height int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}
