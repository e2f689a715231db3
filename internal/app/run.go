// ABOUTME: Front ends for the app: the interactive TUI and a headless marathon
// ABOUTME: Bridges session changes and avatar downloads into bubbletea messages
package app

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ujokes/ujokes-go/internal/auth"
	"github.com/ujokes/ujokes-go/internal/theme"
	"github.com/ujokes/ujokes-go/internal/ui"
)

// Sender delivers messages to a running TUI
type Sender interface {
	Send(msg tea.Msg)
}

// RunTUI shows the TUI until the user quits
func (a *App) RunTUI(ctx context.Context) error {
	prog := ui.Run(a, ui.Options{
		Theme:          a.theme.Current(),
		DarkBackground: theme.DetectDarkBackground(),
		BatchSize:      a.cfg.Gemini.BatchSize,
	})

	unsubscribe := a.Bridge(ctx, prog)
	defer unsubscribe()

	// Start publishes through prog.Send, which blocks until the program loop runs
	go a.session.Start(ctx)

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}

// Bridge forwards session changes to the TUI and fetches the avatar after sign-in
func (a *App) Bridge(ctx context.Context, s Sender) (unsubscribe func()) {
	return a.session.Subscribe(func(st auth.State) {
		s.Send(ui.AuthStateMsg{State: st})

		if a.avatars == nil {
			return
		}
		if st.Kind != auth.Authenticated {
			a.avatars.Forget()
			return
		}
		go a.sendAvatar(ctx, s, st.Profile.PhotoURL)
	})
}

func (a *App) sendAvatar(ctx context.Context, s Sender, photoURL string) {
	path, err := a.avatars.Fetch(ctx, photoURL)
	if err != nil {
		a.log.Warn().Err(err).Msg("profile photo unavailable")
		return
	}
	if path != "" {
		s.Send(ui.AvatarMsg{Path: path})
	}
}

// RunHeadless enters guest mode, generates one batch and narrates every joke in turn
func (a *App) RunHeadless(ctx context.Context, w io.Writer) error {
	a.session.Start(ctx)
	if !a.session.State().Allowed() {
		a.session.EnterGuest()
	}
	a.log.Info().Str("as", a.session.State().Name()).Msg("starting headless marathon")

	batch := a.GenerateJokes(ctx)
	if batch.Len() == 0 {
		return fmt.Errorf("no jokes generated")
	}

	for i, j := range batch.Jokes {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%2d. %s\n    — %s\n", i+1, j.Setup, j.Punchline)
		a.PlayJoke(ctx, j)
	}
	return nil
}
