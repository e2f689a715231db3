// ABOUTME: Rendering for the loading, gate and main screens
// ABOUTME: Styles come from the active theme palette
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ujokes/ujokes-go/internal/auth"
	"github.com/ujokes/ujokes-go/internal/jokes"
	"github.com/ujokes/ujokes-go/internal/theme"
)

const logo = "U JOKES"

// rows taken by one joke card including borders
const cardHeight = 5

// View renders the TUI
func (m Model) View() string {
	switch m.Screen() {
	case ScreenLoading:
		return m.renderLoading()
	case ScreenGate:
		return m.renderGate()
	default:
		return m.renderMain()
	}
}

func (m Model) palette() theme.Palette {
	return theme.PaletteFor(theme.Effective(m.theme, m.darkBG))
}

func (m Model) renderLoading() string {
	p := m.palette()
	return p.Title.Render(logo) + "\n\n" + p.Dim.Render("WARMING UP THE STAGE...") + "\n"
}

func (m Model) renderGate() string {
	p := m.palette()
	var b strings.Builder

	b.WriteString(p.Title.Render(logo))
	b.WriteString("\n\n")
	b.WriteString(p.Header.Render("Unstoppable Laughter."))
	b.WriteString("\n")
	b.WriteString(p.Text.Render(fmt.Sprintf("The world's first AI comedy club delivering %d punchy jokes in a funny voice.", m.batchSize)))
	b.WriteString("\n\n")

	if m.banner != nil {
		b.WriteString(m.renderBanner(p, *m.banner))
		b.WriteString("\n\n")
	}

	if m.signingIn {
		b.WriteString(p.Dim.Render("Waiting for Google sign-in in your browser..."))
	} else {
		b.WriteString(p.Text.Render("[s] Sign in with Google"))
	}
	b.WriteString("\n")
	b.WriteString(p.Text.Render("[g] Skip Login (Guest Mode)"))
	b.WriteString("\n\n")

	help := "s:Sign in  g:Guest  q:Quit"
	if m.banner != nil {
		help = "s:Sign in  g:Guest  x:Dismiss  q:Quit"
	}
	b.WriteString(p.Help.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBanner(p theme.Palette, banner auth.Banner) string {
	var body strings.Builder
	body.WriteString(lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(banner.Title)))
	body.WriteString("\n")
	body.WriteString(wrap(banner.Message, m.contentWidth()-4))
	if banner.Code == auth.CodeUnauthorizedDomain && banner.Host != "" {
		body.WriteString("\n")
		body.WriteString("Add to Authorized Hosts: " + banner.Host)
	}
	return p.Banner.Render(body.String())
}

func (m Model) renderMain() string {
	p := m.palette()
	var b strings.Builder

	b.WriteString(m.renderHeader(p))
	b.WriteString("\n\n")

	b.WriteString(p.Header.Render("THE LAUGHTER ENGINE"))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(p.Dim.Render("WRITING COMEDY..."))
	} else {
		b.WriteString(p.Text.Render(fmt.Sprintf("[n] LOAD %d BANGER JOKES", m.batchSize)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderGrid(p))
	b.WriteString("\n")
	b.WriteString(p.Help.Render("n:New  ↑/↓:Select  space:Punchline  p:Play  t:Theme  l:Logout  q:Quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderHeader(p theme.Palette) string {
	who := "👤 " + m.auth.Name()
	if m.avatar != "" {
		who = "🖼 " + m.auth.Name()
	}
	return p.Title.Render(logo) + "  " + p.Dim.Render(m.theme.Label()) + "  " + p.Text.Render(who)
}

func (m Model) renderGrid(p theme.Palette) string {
	if len(m.jokes) == 0 {
		if m.loading {
			return ""
		}
		return p.Card.Render(p.Header.Render("STAGE IS CLEAR") + "\n" + p.Dim.Render("Press n to start the marathon.")) + "\n"
	}

	first, last := m.visibleRange()
	var b strings.Builder
	if first > 0 {
		b.WriteString(p.Dim.Render(fmt.Sprintf("  ↑ %d more", first)))
		b.WriteString("\n")
	}
	for i := first; i < last; i++ {
		b.WriteString(m.renderCard(p, i, m.jokes[i]))
		b.WriteString("\n")
	}
	if last < len(m.jokes) {
		b.WriteString(p.Dim.Render(fmt.Sprintf("  ↓ %d more", len(m.jokes)-last)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCard(p theme.Palette, idx int, j jokes.Joke) string {
	width := m.contentWidth() - 4
	// padding eats two columns of the card width
	text := width - 2

	var body strings.Builder
	body.WriteString(p.Setup.Render(wrap(fmt.Sprintf("%d. %s", idx+1, j.Setup), text)))
	body.WriteString("\n")
	if m.revealed[j.ID] {
		body.WriteString(p.Punch.Render(wrap("— "+j.Punchline, text)))
	} else {
		body.WriteString(p.Dim.Render("Reveal Punchline"))
	}

	status := "▶ play"
	if m.playing[j.ID] {
		status = "♪ playing..."
	}
	body.WriteString("\n")
	body.WriteString(p.Dim.Render(status))

	style := p.Card
	if idx == m.cursor {
		style = p.Selected
	}
	return style.Width(width).Render(body.String())
}

// visibleRange returns the window of cards that fits the terminal around the cursor
func (m Model) visibleRange() (int, int) {
	n := len(m.jokes)
	fit := n
	if m.height > 0 {
		fit = max(1, (m.height-12)/cardHeight)
	}
	if fit >= n {
		return 0, n
	}

	first := m.cursor - fit/2
	first = max(0, min(first, n-fit))
	return first, first + fit
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(20, min(m.width, 100))
}

// wrap breaks text on spaces so no line exceeds width
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		wl := lipgloss.Width(w)
		if i > 0 {
			if lineLen+1+wl > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += wl
	}
	return b.String()
}
