package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/winnow/internal/diag"
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the engine or the feed. It receives rows
// via messages; all engine work happens inside the injected commands.
type App struct {
	loadRows func() tea.Cmd
	navigate func() tea.Cmd
	scanSubs func() tea.Cmd
	churn    func() tea.Cmd

	ring *diag.Ring

	rows       []Row
	cursor     int
	page       int
	subs       int
	err        error
	width      int
	height     int
	ready      bool
	showHidden bool
	debug      bool
}

// NewApp creates a new App with the given command functions.
// loadRows: returns a Cmd that joins the current page with surface state
// navigate: returns a Cmd that simulates a navigation and resweeps
// scanSubs: returns a Cmd that runs a subscription scan
// churn: returns a Cmd that mutates cards and schedules the next tick
func NewApp(loadRows, navigate, scanSubs, churn func() tea.Cmd, ring *diag.Ring) App {
	return App{
		loadRows: loadRows,
		navigate: navigate,
		scanSubs: scanSubs,
		churn:    churn,
		ring:     ring,
	}
}

// WithShowHidden sets the initial hidden-card visibility preference.
func (a App) WithShowHidden(show bool) App {
	a.showHidden = show
	return a
}

// Init loads the first page and starts the churn ticker.
func (a App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if a.loadRows != nil {
		cmds = append(cmds, a.loadRows())
	}
	if a.churn != nil {
		cmds = append(cmds, a.churn())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case RowsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.rows = msg.Rows
		a.page = msg.Page
		a.subs = msg.Subs
		a.err = nil
		a.clampCursor()
		return a, nil

	case NavigationDone:
		a.page = msg.Page
		a.cursor = 0
		if a.loadRows != nil {
			return a, a.loadRows()
		}
		return a, nil

	case ScanComplete:
		a.subs = msg.Count
		if a.loadRows != nil {
			return a, a.loadRows()
		}
		return a, nil

	case ChurnTick:
		var cmds []tea.Cmd
		if a.loadRows != nil {
			cmds = append(cmds, a.loadRows())
		}
		if a.churn != nil {
			cmds = append(cmds, a.churn())
		}
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.err != nil {
		a.err = nil
	}

	// The debug overlay swallows everything except its own toggles.
	if a.debug {
		switch msg.String() {
		case "d", "esc", "q":
			a.debug = false
		}
		return a, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		if a.cursor < len(a.visible())-1 {
			a.cursor++
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		return a, nil

	case "G", "end":
		if n := len(a.visible()); n > 0 {
			a.cursor = n - 1
		}
		return a, nil

	case "n":
		if a.navigate != nil {
			return a, a.navigate()
		}
		return a, nil

	case "s":
		if a.scanSubs != nil {
			return a, a.scanSubs()
		}
		return a, nil

	case "h":
		a.showHidden = !a.showHidden
		a.clampCursor()
		return a, nil

	case "d":
		a.debug = true
		return a, nil
	}

	return a, nil
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debug {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	contentHeight := a.height - 1
	if a.err != nil {
		contentHeight--
	}

	visible := a.visible()
	stream := RenderStream(visible, a.cursor, a.width, contentHeight)

	errorBar := ""
	if a.err != nil {
		errorBar = ErrorStyle.Width(a.width).Render("Error: " + a.err.Error() + " (press any key to dismiss)")
	}

	statusBar := RenderStatusBar(a.cursor, len(visible), len(a.rows), a.page, a.subs, a.width, a.showHidden)

	return stream + errorBar + statusBar
}

func (a *App) visible() []Row {
	return VisibleRows(a.rows, a.showHidden)
}

func (a *App) clampCursor() {
	if n := len(a.visible()); a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Rows returns the current rows (for testing).
func (a App) Rows() []Row {
	return a.rows
}
