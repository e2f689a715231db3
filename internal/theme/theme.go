// ABOUTME: Light/dark/system theme preference and terminal palettes
// ABOUTME: Cycles, persists and resolves the theme used by the TUI
package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/ujokes/ujokes-go/internal/store"
)

// Theme is the user's appearance preference
type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"

	// Default applies when nothing valid is stored
	Default = System

	storeKey = "theme"
)

// Parse validates a theme name
func Parse(s string) (Theme, error) {
	switch t := Theme(s); t {
	case Light, Dark, System:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Next returns the theme after t in the light -> dark -> system cycle
func Next(t Theme) Theme {
	switch t {
	case Light:
		return Dark
	case Dark:
		return System
	default:
		return Light
	}
}

// Effective resolves System against the terminal background
func Effective(t Theme, darkBackground bool) Theme {
	if t != System {
		return t
	}
	if darkBackground {
		return Dark
	}
	return Light
}

// Label is a short indicator for the header
func (t Theme) Label() string {
	switch t {
	case Light:
		return "☀ light"
	case Dark:
		return "☾ dark"
	default:
		return "◐ system"
	}
}

// KV is the storage the switcher persists to
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Switcher holds the current theme and persists every change
type Switcher struct {
	kv  KV
	log zerolog.Logger

	mu      sync.Mutex
	current Theme
}

// NewSwitcher creates a switcher at the default theme; call Load to restore
func NewSwitcher(kv KV, log zerolog.Logger) *Switcher {
	return &Switcher{
		kv:      kv,
		log:     log.With().Str("component", "theme").Logger(),
		current: Default,
	}
}

// Load restores the stored theme. Missing or invalid values yield System.
func (s *Switcher) Load(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, storeKey)
	if errors.Is(err, store.ErrNotFound) {
		s.current = Default
		return s.current, nil
	}
	if err != nil {
		s.current = Default
		return s.current, fmt.Errorf("load theme: %w", err)
	}

	t, err := Parse(string(raw))
	if err != nil {
		s.log.Warn().Str("stored", string(raw)).Msg("ignoring invalid stored theme")
		t = Default
	}
	s.current = t
	return t, nil
}

// Current returns the active theme
func (s *Switcher) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Toggle advances to the next theme and persists it before returning
func (s *Switcher) Toggle(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, Next(s.current))
}

// Set makes t the active theme and persists it
func (s *Switcher) Set(ctx context.Context, t Theme) (Theme, error) {
	if _, err := Parse(string(t)); err != nil {
		return s.Current(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, t)
}

func (s *Switcher) setLocked(ctx context.Context, t Theme) (Theme, error) {
	if err := s.kv.Set(ctx, storeKey, []byte(t)); err != nil {
		return s.current, fmt.Errorf("save theme: %w", err)
	}
	s.current = t
	s.log.Info().Str("theme", string(t)).Msg("theme changed")
	return t, nil
}

// Palette holds the styles for one effective theme
type Palette struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Text     lipgloss.Style
	Dim      lipgloss.Style
	Setup    lipgloss.Style
	Punch    lipgloss.Style
	Selected lipgloss.Style
	Card     lipgloss.Style
	Banner   lipgloss.Style
	Help     lipgloss.Style
}

type colors struct {
	primary lipgloss.Color
	accent  lipgloss.Color
	text    lipgloss.Color
	dim     lipgloss.Color
	border  lipgloss.Color
	alert   lipgloss.Color
}

var (
	lightColors = colors{
		primary: lipgloss.Color("#7c3aed"),
		accent:  lipgloss.Color("#db2777"),
		text:    lipgloss.Color("#1f2937"),
		dim:     lipgloss.Color("#6b7280"),
		border:  lipgloss.Color("#d1d5db"),
		alert:   lipgloss.Color("#b91c1c"),
	}
	darkColors = colors{
		primary: lipgloss.Color("#a78bfa"),
		accent:  lipgloss.Color("#f472b6"),
		text:    lipgloss.Color("#e5e7eb"),
		dim:     lipgloss.Color("#9ca3af"),
		border:  lipgloss.Color("#374151"),
		alert:   lipgloss.Color("#f87171"),
	}
)

// PaletteFor returns styles for an effective theme; System is treated as Dark
func PaletteFor(t Theme) Palette {
	c := darkColors
	if t == Light {
		c = lightColors
	}

	return Palette{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(c.primary),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(c.accent),
		Text:     lipgloss.NewStyle().Foreground(c.text),
		Dim:      lipgloss.NewStyle().Foreground(c.dim),
		Setup:    lipgloss.NewStyle().Bold(true).Foreground(c.text),
		Punch:    lipgloss.NewStyle().Italic(true).Foreground(c.accent),
		Selected: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.primary).Padding(0, 1),
		Card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.border).Padding(0, 1),
		Banner:   lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(c.alert).Foreground(c.alert).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(c.dim),
	}
}

// DetectDarkBackground asks the terminal for its background color
func DetectDarkBackground() bool {
	return lipgloss.HasDarkBackground()
}
