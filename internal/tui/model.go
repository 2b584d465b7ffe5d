package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/avelten/logscope/internal/domain"
	"github.com/avelten/logscope/internal/usecase"
)

const (
	collapsedRows = 1
	expandedRows  = 8

	// Automatically load the next page when the last visible entry is within
	// this many items of the end of the loaded array.
	loadMoreProximity = 5

	overscan = 3
)

// levelCycle is the order the level filter steps through; the empty string
// means unset.
var levelCycle = []string{"", "ERROR", "WARNING", "INFO", "DEBUG"}

type updateMsg struct{}

type fileChangeMsg struct {
	change domain.FileChange
	ok     bool
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model is the bubbletea model driving the explorer. All loading, filtering
// and pagination state lives in the Explorer; the model owns only rendering
// state (focus, expansion, scroll) plus the input widgets.
type Model struct {
	explorer *usecase.Explorer
	changes  <-chan domain.FileChange
	throttle *rate.Limiter
	logger   *slog.Logger

	keys   KeyMap
	styles Styles
	help   help.Model
	search textinput.Model
	spin   spinner.Model

	nav     *ListNav
	st      usecase.State
	lastGen uint64
	scroll  int

	width, height int
	searchFocus   bool
	showHelp      bool
	statusMsg     string
}

// NewModel creates the TUI model. changes may be nil when no file watcher is
// running; throttle bounds how often watcher events trigger a refresh.
func NewModel(explorer *usecase.Explorer, changes <-chan domain.FileChange, throttle *rate.Limiter, logger *slog.Logger) Model {
	search := textinput.New()
	search.Placeholder = "search..."
	search.Prompt = "/"
	search.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		explorer: explorer,
		changes:  changes,
		throttle: throttle,
		logger:   logger.With("component", "tui"),
		keys:     DefaultKeyMap(),
		styles:   NewStyles(),
		help:     help.New(),
		search:   search,
		spin:     spin,
		nav:      NewListNav(),
		width:    120,
		height:   40,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForUpdate(m.explorer.Updates()), m.spin.Tick}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func waitForUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return updateMsg{}
	}
}

func waitForChange(ch <-chan domain.FileChange) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-ch
		return fileChangeMsg{change: change, ok: ok}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = msg.Width - 4
		m.scroll = ClampScroll(m.scroll, m.listHeight(), TotalHeight(len(m.st.Entries), m.sizeFunc()))
		return m, nil

	case updateMsg:
		m.st = m.explorer.State()
		if m.st.QueryGen != m.lastGen {
			// Entry array replaced wholesale: a fresh query has no implied
			// focus and no surviving expansion state.
			m.nav.Reset()
			m.scroll = 0
			m.lastGen = m.st.QueryGen
		}
		m.maybeLoadMore()
		return m, waitForUpdate(m.explorer.Updates())

	case fileChangeMsg:
		if !msg.ok {
			return m, nil
		}
		if m.throttle == nil || m.throttle.Allow() {
			m.explorer.Refresh()
		}
		return m, waitForChange(m.changes)

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = "export failed: " + msg.err.Error()
		} else if msg.path == "" {
			m.statusMsg = "nothing to export"
		} else {
			m.statusMsg = "exported " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocus {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchFocus = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Down):
		m.nav.Down(len(m.st.Entries))
		m.afterFocusChange()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.nav.Up(len(m.st.Entries))
		m.afterFocusChange()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.nav.Home(len(m.st.Entries))
		m.afterFocusChange()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.nav.End(len(m.st.Entries))
		m.afterFocusChange()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.nav.PageDown(len(m.st.Entries))
		m.afterFocusChange()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.nav.PageUp(len(m.st.Entries))
		m.afterFocusChange()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if i := m.nav.Focused(); i >= 0 && i < len(m.st.Entries) {
			m.nav.ToggleExpand(m.st.Entries[i].LineNumber)
			// Heights changed; keep the focused row in view under the new
			// offsets.
			m.afterFocusChange()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		m.explorer.SetFilters(nextLevelPatch(m.st.Filters.Level))
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.search.SetValue("")
		m.explorer.ResetFilters()
		return m, nil

	case key.Matches(msg, m.keys.NextFile):
		m.selectAdjacentFile(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevFile):
		m.selectAdjacentFile(-1)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.explorer.Refresh()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.statusMsg = "exporting..."
		return m, func() tea.Msg {
			path, err := m.explorer.ExportFiltered()
			return exportDoneMsg{path: path, err: err}
		}
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searchFocus = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.explorer.SetFilters(searchPatch(after))
	}
	return m, cmd
}

// afterFocusChange scrolls the focused entry into view with minimal
// adjustment and triggers pagination when focus nears the end.
func (m *Model) afterFocusChange() {
	if i := m.nav.Focused(); i >= 0 {
		m.scroll = ScrollIntoView(m.scroll, m.listHeight(), i, m.sizeFunc())
	}
	m.maybeLoadMore()
}

// maybeLoadMore requests the next page when the last visible entry is within
// loadMoreProximity of the end. The Explorer's guards make duplicate calls
// under rapid re-renders harmless.
func (m *Model) maybeLoadMore() {
	count := len(m.st.Entries)
	if count == 0 || !m.st.HasMore || m.st.IsLoadingMore {
		return
	}
	_, end := Visible(m.scroll, m.listHeight(), count, 0, m.sizeFunc())
	if end >= count-1-loadMoreProximity {
		m.explorer.LoadMore()
	}
}

func (m *Model) selectAdjacentFile(dir int) {
	files := m.st.Files
	if len(files) == 0 {
		return
	}
	current := 0
	for i, f := range files {
		if f.Name == m.st.SelectedFile {
			current = i
			break
		}
	}
	next := (current + dir + len(files)) % len(files)
	m.explorer.SelectFile(files[next].Name)
}

func (m Model) sizeFunc() SizeFunc {
	entries := m.st.Entries
	return func(i int) int {
		if i < 0 || i >= len(entries) {
			return collapsedRows
		}
		if m.nav.IsExpanded(entries[i].LineNumber) {
			return expandedRows
		}
		return collapsedRows
	}
}

func (m Model) listHeight() int {
	// Header, search line, status bar and the short help line frame the list.
	h := m.height - 4
	if m.showHelp {
		h -= 2
	}
	if h < 1 {
		h = 1
	}
	return h
}

func searchPatch(value string) domain.FilterPatch {
	if value == "" {
		return domain.FilterPatch{SetSearch: true}
	}
	return domain.FilterPatch{SetSearch: true, Search: &value}
}

func nextLevelPatch(current *string) domain.FilterPatch {
	idx := 0
	if current != nil {
		for i, l := range levelCycle {
			if l == *current {
				idx = i
				break
			}
		}
	}
	next := levelCycle[(idx+1)%len(levelCycle)]
	if next == "" {
		return domain.FilterPatch{SetLevel: true}
	}
	return domain.FilterPatch{SetLevel: true, Level: &next}
}
