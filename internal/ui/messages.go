// ABOUTME: Messages and actions exchanged between the TUI and the app
// ABOUTME: The app implements Actions; results come back as tea messages
package ui

import (
	"context"

	"github.com/ujokes/ujokes-go/internal/auth"
	"github.com/ujokes/ujokes-go/internal/jokes"
	"github.com/ujokes/ujokes-go/internal/theme"
)

// Actions are the operations the TUI can trigger
type Actions interface {
	// SignIn runs the browser flow; the new state arrives as AuthStateMsg
	SignIn(ctx context.Context) error
	EnterGuest()
	Logout(ctx context.Context) error

	// GenerateJokes never fails; problems yield an empty batch
	GenerateJokes(ctx context.Context) jokes.Batch

	// PlayJoke narrates j and returns once playback has finished or been skipped
	PlayJoke(ctx context.Context, j jokes.Joke)

	ToggleTheme(ctx context.Context) theme.Theme
}

// AuthStateMsg carries a session change
type AuthStateMsg struct {
	State auth.State
}

// AuthErrorMsg reports a failed sign-in
type AuthErrorMsg struct {
	Banner auth.Banner
}

// JokesMsg replaces the joke grid
type JokesMsg struct {
	Batch jokes.Batch
}

// PlayDoneMsg clears the playing flag of one joke
type PlayDoneMsg struct {
	ID string
}

// ThemeMsg reports the active theme
type ThemeMsg struct {
	Theme theme.Theme
}

// AvatarMsg reports the cached profile photo path, empty when there is none
type AvatarMsg struct {
	Path string
}
