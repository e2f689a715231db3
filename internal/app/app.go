// ABOUTME: Application wiring for the joke player
// ABOUTME: Builds every component from config and implements the TUI actions
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ujokes/ujokes-go/internal/auth"
	"github.com/ujokes/ujokes-go/internal/avatar"
	"github.com/ujokes/ujokes-go/internal/config"
	"github.com/ujokes/ujokes-go/internal/gemini"
	"github.com/ujokes/ujokes-go/internal/jokes"
	"github.com/ujokes/ujokes-go/internal/player"
	"github.com/ujokes/ujokes-go/internal/speech"
	"github.com/ujokes/ujokes-go/internal/store"
	"github.com/ujokes/ujokes-go/internal/theme"
	"github.com/ujokes/ujokes-go/internal/ui"
	"github.com/ujokes/ujokes-go/pkg/audio"
	"github.com/ujokes/ujokes-go/pkg/audio/output"
	"github.com/ujokes/ujokes-go/pkg/audio/resample"
)

// ErrNoAudio is returned when a narration carries no audio payload
var ErrNoAudio = errors.New("no audio in speech response")

// DeviceOpener opens the audio output at the given format
type DeviceOpener func(format audio.Format) (output.Device, error)

// Deps are the external boundaries the app is built on
type Deps struct {
	Store     *store.Store
	Generator gemini.ContentGenerator
	Provider  auth.Provider
	Avatars   *avatar.Cache // optional

	// OpenDevice is called on the first playback
	OpenDevice DeviceOpener
}

// App holds the wired components
type App struct {
	cfg config.Config
	log zerolog.Logger

	store   *store.Store
	jokes   *jokes.Generator
	speech  *speech.Synthesizer
	theme   *theme.Switcher
	session *auth.Session
	avatars *avatar.Cache

	openDevice DeviceOpener
	engineMu   sync.Mutex
	engine     *player.Engine

	closeOnce sync.Once
	closeErr  error
}

var _ ui.Actions = (*App)(nil)

// Open builds the app against the real store, Gemini, Google and audio device
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	st, err := store.Open(store.Options{Dir: cfg.Storage.Dir, Logger: log})
	if err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:  cfg.APIKey(),
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout.ToDuration(),
	})
	if err != nil {
		st.Close()
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			return nil, fmt.Errorf("%w: set %s", err, cfg.Gemini.APIKeyEnv)
		}
		return nil, err
	}

	avatars, err := avatar.NewCache(cfg.Storage.AvatarDir, log)
	if err != nil {
		log.Warn().Err(err).Msg("avatar cache disabled")
		avatars = nil
	}

	provider := auth.NewGoogleProvider(auth.GoogleConfig{
		ClientID:        cfg.ClientID(),
		ClientSecret:    cfg.ClientSecret(),
		RedirectHost:    cfg.Auth.RedirectHost,
		AuthorizedHosts: cfg.Auth.AuthorizedHosts,
		AuthURL:         cfg.Auth.AuthURL,
		TokenURL:        cfg.Auth.TokenURL,
		UserInfoURL:     cfg.Auth.UserInfoURL,
		Timeout:         cfg.Auth.Timeout.ToDuration(),
	}, log)

	a, err := New(ctx, cfg, log, Deps{
		Store:     st,
		Generator: client,
		Provider:  provider,
		Avatars:   avatars,
		OpenDevice: func(format audio.Format) (output.Device, error) {
			return output.NewOto(format, log)
		},
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return a, nil
}

// New wires the app from already-built dependencies
func New(ctx context.Context, cfg config.Config, log zerolog.Logger, deps Deps) (*App, error) {
	if deps.Store == nil {
		return nil, errors.New("app: store is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("app: generator is required")
	}

	gen, err := jokes.NewGenerator(deps.Generator, jokes.Config{
		Model:     cfg.Gemini.TextModel,
		BatchSize: cfg.Gemini.BatchSize,
	}, log)
	if err != nil {
		return nil, err
	}

	var cache speech.Cache
	if cfg.Audio.CacheSpeech {
		cache = deps.Store
	}
	synth := speech.NewSynthesizer(deps.Generator, speech.Config{
		Model: cfg.Gemini.SpeechModel,
		Voice: cfg.Gemini.Voice,
	}, cache, log)

	switcher := theme.NewSwitcher(deps.Store, log)
	if _, err := switcher.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("using default theme")
	}

	return &App{
		cfg:        cfg,
		log:        log.With().Str("component", "app").Logger(),
		store:      deps.Store,
		jokes:      gen,
		speech:     synth,
		theme:      switcher,
		session:    auth.NewSession(deps.Provider, deps.Store, log),
		avatars:    deps.Avatars,
		openDevice: deps.OpenDevice,
	}, nil
}

// Session exposes the auth session
func (a *App) Session() *auth.Session {
	return a.session
}

// Theme exposes the theme switcher
func (a *App) Theme() *theme.Switcher {
	return a.theme
}

// Jokes exposes the joke generator for callers that want the error
func (a *App) Jokes() *jokes.Generator {
	return a.jokes
}

// Store exposes the local state store
func (a *App) Store() *store.Store {
	return a.store
}

// SignIn runs the browser sign-in
func (a *App) SignIn(ctx context.Context) error {
	return a.session.SignIn(ctx)
}

// EnterGuest skips sign-in
func (a *App) EnterGuest() {
	a.session.EnterGuest()
}

// Logout returns to the gate
func (a *App) Logout(ctx context.Context) error {
	if a.avatars != nil {
		a.avatars.Forget()
	}
	err := a.session.Logout(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("logout reported an error")
	}
	return err
}

// GenerateJokes requests a new batch. Failures are logged and yield an empty batch.
func (a *App) GenerateJokes(ctx context.Context) jokes.Batch {
	batch, err := a.jokes.Generate(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("joke generation failed")
		return jokes.Batch{}
	}
	a.log.Info().Int("count", batch.Len()).Msg("jokes generated")
	return batch
}

// PlayJoke narrates j and waits for playback to finish. Failures are logged.
func (a *App) PlayJoke(ctx context.Context, j jokes.Joke) {
	if err := a.Speak(ctx, speech.JokeText(j)); err != nil {
		if errors.Is(err, ErrNoAudio) {
			a.log.Info().Str("joke", j.ID).Msg("nothing to play")
			return
		}
		a.log.Error().Err(err).Str("joke", j.ID).Msg("playback skipped")
	}
}

// ToggleTheme advances the theme; a failed save keeps the current one
func (a *App) ToggleTheme(ctx context.Context) theme.Theme {
	t, err := a.theme.Toggle(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("theme change failed")
	}
	return t
}

// Narrate synthesizes text and decodes it into samples
func (a *App) Narrate(ctx context.Context, text string) (audio.Buffer, error) {
	clip, ok, err := a.speech.Synthesize(ctx, text)
	if err != nil {
		return audio.Buffer{}, err
	}
	if !ok {
		return audio.Buffer{}, ErrNoAudio
	}

	buf, err := clip.Buffer()
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("decode speech: %w", err)
	}
	if buf.Format.SampleRate != audio.SpeechSampleRate {
		a.log.Debug().Int("rate", buf.Format.SampleRate).Msg("resampling narration")
		buf = resample.Buffer(buf, audio.SpeechSampleRate)
	}
	a.log.Debug().
		Bool("cached", clip.CacheHit).
		Dur("duration", buf.Duration()).
		Msg("narration ready")
	return buf, nil
}

// Play submits buf to the playback engine and waits for it to finish
func (a *App) Play(ctx context.Context, buf audio.Buffer) error {
	engine, err := a.player()
	if err != nil {
		return err
	}
	pb, err := engine.Play(buf)
	if err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	return pb.Wait(ctx)
}

// Speak narrates text and plays it
func (a *App) Speak(ctx context.Context, text string) error {
	buf, err := a.Narrate(ctx, text)
	if err != nil {
		return err
	}
	return a.Play(ctx, buf)
}

// player opens the output device on first use
func (a *App) player() (*player.Engine, error) {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}
	if a.openDevice == nil {
		return nil, errors.New("no audio output configured")
	}

	format := audio.SpeechFormat()
	dev, err := a.openDevice(format)
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	engine, err := player.NewEngine(dev, format, a.log,
		player.WithOverlap(a.cfg.Audio.Overlap),
		player.WithPollInterval(a.cfg.Audio.PollInterval.ToDuration()),
		player.WithVolume(a.cfg.Audio.Volume),
	)
	if err != nil {
		dev.Close()
		return nil, err
	}
	engine.SetMuted(a.cfg.Audio.Muted)

	a.engine = engine
	return engine, nil
}

// Close releases the session, audio device and store
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.session.Close()

		var errs []error
		a.engineMu.Lock()
		if a.engine != nil {
			errs = append(errs, a.engine.Close())
			a.engine = nil
		}
		a.engineMu.Unlock()

		errs = append(errs, a.store.Close())
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}
