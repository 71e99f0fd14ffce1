package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
	"github.com/tinytelemetry/quickstart/internal/quickstart"
)

// Panel is the subset of the quick start panel the terminal front end drives.
type Panel interface {
	Triggers() []host.Trigger
	Press(trigger string) (model.PageID, error)
	ReturnHome() (model.PageID, error)
	Active() model.PageID
	LastChange() (quickstart.Change, bool)
	Resource(id model.PageID) host.Resource
	Message(key string) string
	View(fn func(id model.PageID, page host.Page)) error
	SubmitTarget(raw string) error
	Options() model.Options
}

// TickMsg represents periodic refreshes. Remote surfaces change page state
// behind the UI's back, so the view is redrawn on every tick.
type TickMsg time.Time

// App is the top-level Bubble Tea model: a row of buttons over the visible
// page.
type App struct {
	panel    Panel
	keys     KeyMap
	interval time.Duration

	cursor   int
	input    textinput.Model
	editing  bool
	showHelp bool
	status   string
	statusOK bool

	width  int
	height int
}

// NewApp creates the front end for panel, refreshing every interval.
func NewApp(panel Panel, interval time.Duration) *App {
	if interval <= 0 {
		interval = model.DefaultRefreshInterval
	}
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 2048
	return &App{
		panel:    panel,
		keys:     DefaultKeyMap(),
		interval: interval,
		input:    in,
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(10, msg.Width-12)
		return a, nil

	case TickMsg:
		return a, a.tick()

	case tea.KeyMsg:
		if a.editing {
			return a.handleInputKey(msg)
		}
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	triggers := a.panel.Triggers()

	switch {
	case key.Matches(msg, a.keys.ForceQuit), key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = !a.showHelp

	case key.Matches(msg, a.keys.Left):
		if len(triggers) > 0 {
			a.cursor = (a.cursor - 1 + len(triggers)) % len(triggers)
		}

	case key.Matches(msg, a.keys.Right):
		if len(triggers) > 0 {
			a.cursor = (a.cursor + 1) % len(triggers)
		}

	case key.Matches(msg, a.keys.Enter):
		if a.cursor < len(triggers) {
			_, err := a.panel.Press(triggers[a.cursor].Name)
			a.report(err, "")
		}

	case key.Matches(msg, a.keys.Home):
		a.showHelp = false
		_, err := a.panel.ReturnHome()
		a.report(err, "")

	case key.Matches(msg, a.keys.Focus):
		if a.panel.Active() == model.PageAttack {
			a.editing = true
			a.input.Placeholder = a.panel.Options().QuickStart.DefaultURL
			return a, a.input.Focus()
		}
	}
	return a, nil
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc, tea.KeyTab:
		a.editing = false
		a.input.Blur()
		return a, nil
	case tea.KeyEnter:
		raw := a.input.Value()
		if raw == "" {
			raw = a.input.Placeholder
		}
		if err := a.panel.SubmitTarget(raw); err != nil {
			a.report(err, "")
			return a, nil
		}
		a.report(nil, a.panel.Message("quickstart.attack.submitted")+" "+raw)
		a.input.Reset()
		a.editing = false
		a.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// report sets the status line from an operation's outcome.
func (a *App) report(err error, ok string) {
	switch {
	case err != nil:
		a.status, a.statusOK = describe(err), false
	default:
		a.status, a.statusOK = ok, true
	}
}

func describe(err error) string {
	var ce *host.ConstructionError
	if errors.As(err, &ce) {
		return "could not open " + string(ce.Page) + ": " + ce.Err.Error()
	}
	return err.Error()
}
