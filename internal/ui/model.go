// ABOUTME: Bubbletea model for the joke TUI
// ABOUTME: Defines screen state and update logic for the gate and joke grid
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ujokes/ujokes-go/internal/auth"
	"github.com/ujokes/ujokes-go/internal/jokes"
	"github.com/ujokes/ujokes-go/internal/theme"
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenGate
	ScreenMain
)

// Model represents the TUI state
type Model struct {
	actions Actions

	// Auth
	ready     bool
	auth      auth.State
	banner    *auth.Banner
	signingIn bool
	avatar    string

	// Jokes
	jokes     []jokes.Joke
	batchSize int
	loading   bool
	cursor    int
	revealed  map[string]bool
	playing   map[string]bool

	// Appearance
	theme  theme.Theme
	darkBG bool

	// Dimensions
	width  int
	height int
}

// Options sets the initial appearance of the model
type Options struct {
	Theme          theme.Theme
	DarkBackground bool
	BatchSize      int
}

// NewModel creates a new TUI model
func NewModel(actions Actions, opts Options) Model {
	if opts.Theme == "" {
		opts.Theme = theme.Default
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = jokes.DefaultBatchSize
	}
	return Model{
		actions:   actions,
		batchSize: opts.BatchSize,
		revealed:  make(map[string]bool),
		playing:   make(map[string]bool),
		theme:     opts.Theme,
		darkBG:    opts.DarkBackground,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Screen returns the view currently shown
func (m Model) Screen() Screen {
	switch {
	case !m.ready:
		return ScreenLoading
	case m.auth.Allowed():
		return ScreenMain
	default:
		return ScreenGate
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case AuthStateMsg:
		m.ready = true
		m.auth = msg.State
		m.signingIn = false
		if msg.State.Allowed() {
			m.banner = nil
		}
		if msg.State.Kind != auth.Authenticated {
			m.avatar = ""
		}
	case AuthErrorMsg:
		m.signingIn = false
		b := msg.Banner
		m.banner = &b
	case JokesMsg:
		m.loading = false
		m.jokes = msg.Batch.Jokes
		m.cursor = 0
		m.revealed = make(map[string]bool)
		m.playing = make(map[string]bool)
	case PlayDoneMsg:
		delete(m.playing, msg.ID)
	case ThemeMsg:
		m.theme = msg.Theme
	case AvatarMsg:
		m.avatar = msg.Path
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.Screen() {
	case ScreenLoading:
		if key == "q" {
			return m, tea.Quit
		}
	case ScreenGate:
		return m.handleGateKey(key)
	case ScreenMain:
		return m.handleMainKey(key)
	}
	return m, nil
}

func (m Model) handleGateKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "s":
		if m.signingIn || m.actions == nil {
			return m, nil
		}
		m.signingIn = true
		m.banner = nil
		return m, m.signInCmd()
	case "g":
		if m.actions != nil {
			return m, m.guestCmd()
		}
	case "x", "esc":
		m.banner = nil
	}
	return m, nil
}

func (m Model) handleMainKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "n":
		if m.loading || m.actions == nil {
			return m, nil
		}
		m.loading = true
		return m, m.generateCmd()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.jokes)-1 {
			m.cursor++
		}
	case " ", "space":
		if j, ok := m.selected(); ok {
			m.revealed[j.ID] = !m.revealed[j.ID]
		}
	case "p", "enter":
		j, ok := m.selected()
		if !ok || m.playing[j.ID] || m.actions == nil {
			return m, nil
		}
		m.playing[j.ID] = true
		m.revealed[j.ID] = true
		return m, m.playCmd(j)
	case "t":
		if m.actions != nil {
			return m, m.toggleThemeCmd()
		}
	case "l":
		if m.actions != nil {
			return m, m.logoutCmd()
		}
	}
	return m, nil
}

func (m Model) selected() (jokes.Joke, bool) {
	if m.cursor < 0 || m.cursor >= len(m.jokes) {
		return jokes.Joke{}, false
	}
	return m.jokes[m.cursor], true
}

func (m Model) signInCmd() tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		if err := actions.SignIn(context.Background()); err != nil {
			return AuthErrorMsg{Banner: auth.Describe(err)}
		}
		return nil
	}
}

func (m Model) guestCmd() tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		actions.EnterGuest()
		return nil
	}
}

func (m Model) generateCmd() tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		return JokesMsg{Batch: actions.GenerateJokes(context.Background())}
	}
}

func (m Model) playCmd(j jokes.Joke) tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		actions.PlayJoke(context.Background(), j)
		return PlayDoneMsg{ID: j.ID}
	}
}

func (m Model) toggleThemeCmd() tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		return ThemeMsg{Theme: actions.ToggleTheme(context.Background())}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		// the new state arrives through the session subscription
		_ = actions.Logout(context.Background())
		return nil
	}
}
