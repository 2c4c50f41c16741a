package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap

	// input is the query line, list the results below it.
	input  *input.SearchInput
	list   *list.ResultList
	status *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// detail is the record shown by the detail view.
	detail *domain.CanonicalRecord

	// query is the last submitted search query.
	query string

	// searching is true while a search command is in flight.
	searching bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        km,
		input:       input.NewSearchInput(s),
		list:        list.NewResultList(s),
		status:      status.NewBar(s, km),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("vizier - metadata search"),
		a.input.Init(),
		a.loadStatsCmd(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case messages.SearchCompleted:
		a.searching = false
		a.err = msg.Err
		if msg.Err != nil {
			a.status.SetState(status.StateError)
			a.status.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.list.SetResults(msg.Results)
		a.status.SetResultCount(len(msg.Results))
		a.status.SetState(status.StateResults)
		// Hand focus to the list so j/k navigate straight away.
		if len(msg.Results) > 0 {
			a.input.Blur()
		}
		return a, nil

	case messages.StatsLoaded:
		if msg.Err == nil && msg.Stats.TotalObjects > 0 {
			a.status.SetMessage(fmt.Sprintf("%d objects indexed", msg.Stats.TotalObjects))
		}
		return a, nil

	case messages.RecordLoaded:
		if msg.Err == nil && msg.Record != nil {
			a.detail = msg.Record
		}
		if a.detail != nil {
			a.currentView = messages.ViewDetail
			a.status.SetState(status.StateDetail)
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward everything else (cursor blink etc.) to the input.
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

//nolint:gocognit,gocyclo // key dispatch is one big switch by design of the Elm loop
func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.currentView {
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keys.Help) {
			a.currentView = messages.ViewSearch
			a.status.SetState(status.StateResults)
		}
		return a, nil

	case messages.ViewDetail:
		if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keys.Quit) {
			a.currentView = messages.ViewSearch
			a.detail = nil
			a.status.SetState(status.StateResults)
		}
		return a, nil

	case messages.ViewSearch:
		if a.input.Focused() {
			return a.updateSearchInput(msg)
		}
		return a.updateResultList(msg)
	}
	return a, nil
}

// updateSearchInput handles keys while the query line has focus.
func (a *App) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // only the navigation keys are special-cased
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(a.input.Value())
		if query == "" {
			return a, nil
		}
		a.query = query
		a.searching = true
		a.status.SetState(status.StateSearching)
		return a, a.searchCmd(query)

	case tea.KeyEsc:
		a.input.Reset()
		a.list.SetResults(nil)
		a.status.Clear()
		return a, nil

	case tea.KeyDown, tea.KeyTab:
		if len(a.list.Results()) > 0 {
			a.input.Blur()
			a.status.SetState(status.StateResults)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// updateResultList handles keys while the result list has focus.
func (a *App) updateResultList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case msg.Type == tea.KeyEsc:
		return a, a.input.Focus()

	case keymap.Matches(key, a.keys.NewSearch):
		a.input.Reset()
		a.list.SetResults(nil)
		a.status.Clear()
		return a, a.input.Focus()

	case keymap.Matches(key, a.keys.Help):
		a.currentView = messages.ViewHelp
		a.status.SetState(status.StateHelp)
		return a, nil

	case keymap.Matches(key, a.keys.Quit):
		return a, tea.Quit

	case msg.Type == tea.KeyEnter:
		selected := a.list.SelectedResult()
		if selected == nil {
			return a, nil
		}
		a.detail = &selected.Record
		return a, a.loadRecordCmd(selected.Record.ObjectID)
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

// searchCmd performs a search via the search port.
func (a *App) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Search.Search(a.ctx, query, 0, -1)
		return messages.SearchCompleted{Results: results, Err: err}
	}
}

// loadStatsCmd loads the corpus statistics shown in the status bar.
func (a *App) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := a.ports.Search.Stats(a.ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// loadRecordCmd fetches a fresh record for the detail pane. Without a
// store the pane renders the search result's snapshot.
func (a *App) loadRecordCmd(objectID string) tea.Cmd {
	if a.ports.Store == nil {
		return func() tea.Msg { return messages.RecordLoaded{} }
	}
	return func() tea.Msg {
		record, err := a.ports.Store.FindByObjectID(a.ctx, objectID)
		return messages.RecordLoaded{Record: record, Err: err}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewDetail:
		return a.viewDetail()
	default:
		return a.viewSearch()
	}
}

// viewSearch renders the query line, results and status bar.
func (a *App) viewSearch() string {
	var b strings.Builder

	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	if a.searching {
		b.WriteString(a.styles.Muted.Render("Searching..."))
	} else if len(a.list.Results()) > 0 || a.query != "" {
		b.WriteString(a.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(a.status.View())
	return b.String()
}

// viewDetail renders the selected record in full.
func (a *App) viewDetail() string {
	rec := a.detail
	if rec == nil {
		return a.viewSearch()
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render(rec.Title))
	b.WriteString("  ")
	b.WriteString(a.styles.Subtitle.Render(string(rec.ObjectType)))
	b.WriteString("\n\n")

	writeDetailLine(&b, a.styles, "Project", rec.ProjectName)
	writeDetailLine(&b, a.styles, "Owner", rec.Owner)
	writeDetailLine(&b, a.styles, "Workbook", rec.WorkbookName)
	writeDetailLine(&b, a.styles, "Tags", strings.Join(rec.Tags, ", "))
	writeDetailLine(&b, a.styles, "URL", rec.DeepLinkURL)

	desc := domain.ParseDescription(rec.Description).SearchText()
	if desc != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Normal.Render(desc))
		b.WriteString("\n")
	}

	if len(rec.Fields) > 0 {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render(fmt.Sprintf("Fields (%d)", len(rec.Fields))))
		b.WriteString("\n")
		b.WriteString(a.styles.Muted.Render(strings.Join(rec.Fields, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back to results"))
	return b.String()
}

func writeDetailLine(b *strings.Builder, s *styles.Styles, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(s.Muted.Render(fmt.Sprintf("%-9s ", label+":")))
	b.WriteString(s.Normal.Render(value))
	b.WriteString("\n")
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Search:
  (type)      Enter search query
  enter       Submit search
  esc         Clear query and results
  ↓/tab       Jump to results

Results:
  j/k, ↑/↓    Navigate results
  enter       Show details
  n           New search
  esc         Back to query line
  q           Quit

Details:
  esc         Back to results

Global:
  ctrl+c      Quit

[esc] back`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Query returns the last submitted search query.
func (a *App) Query() string {
	return a.query
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.list.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.list.Selected()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.input.SetWidth(width)
	a.list.SetDimensions(width, height-6)
	a.status.SetWidth(width)
}
