// ABOUTME: Google sign-in through the system browser
// ABOUTME: Runs an OAuth2 authorization-code flow against a loopback redirect
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const callbackPath = "/callback"

// GoogleConfig configures the browser sign-in flow
type GoogleConfig struct {
	ClientID     string
	ClientSecret string

	// RedirectHost is where the loopback listener binds; it must be in AuthorizedHosts
	RedirectHost    string
	AuthorizedHosts []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	// Timeout bounds the wait for the browser callback
	Timeout time.Duration

	// OpenURL opens the consent page; defaults to the system browser
	OpenURL func(url string) error
}

// GoogleProvider signs users in with their Google account
type GoogleProvider struct {
	cfg GoogleConfig
	log zerolog.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

// NewGoogleProvider creates the provider
func NewGoogleProvider(cfg GoogleConfig, log zerolog.Logger) *GoogleProvider {
	if cfg.OpenURL == nil {
		cfg.OpenURL = browser.OpenURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.RedirectHost == "" {
		cfg.RedirectHost = "127.0.0.1"
	}
	return &GoogleProvider{
		cfg: cfg,
		log: log.With().Str("component", "google-auth").Logger(),
	}
}

type callbackResult struct {
	code string
	err  error
}

// SignIn opens the consent page and waits for the redirect
func (p *GoogleProvider) SignIn(ctx context.Context) (Profile, error) {
	if strings.TrimSpace(p.cfg.ClientID) == "" {
		return Profile{}, &Error{Code: CodeOperationNotAllowed, Message: "Google sign-in is not configured: missing OAuth client id"}
	}
	if !slices.Contains(p.cfg.AuthorizedHosts, p.cfg.RedirectHost) {
		return Profile{}, &Error{
			Code:    CodeUnauthorizedDomain,
			Message: fmt.Sprintf("redirect host %q is not authorized", p.cfg.RedirectHost),
			Host:    p.cfg.RedirectHost,
		}
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(p.cfg.RedirectHost, "0"))
	if err != nil {
		return Profile{}, &Error{Code: CodeInternal, Message: "could not start sign-in listener", Err: err}
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	conf := &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.cfg.AuthURL,
			TokenURL: p.cfg.TokenURL,
		},
		RedirectURL: "http://" + net.JoinHostPort(p.cfg.RedirectHost, port) + callbackPath,
		Scopes:      []string{"openid", "email", "profile"},
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		res := parseCallback(r, state)
		if res.err != nil {
			http.Error(w, "Sign-in failed. You can close this window and return to the terminal.", http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Signed in to U Jokes. You can close this window and return to the terminal.")
		}
		select {
		case results <- res:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.log.Warn().Err(err).Msg("callback server stopped")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
	p.log.Debug().Str("redirect", conf.RedirectURL).Msg("opening consent page")
	if err := p.cfg.OpenURL(authURL); err != nil {
		return Profile{}, &Error{Code: CodePopupBlocked, Message: "could not open the browser", Err: err}
	}

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return Profile{}, &Error{Code: CodePopupClosed, Message: "sign-in cancelled", Err: ctx.Err()}
	case <-time.After(p.cfg.Timeout):
		return Profile{}, &Error{Code: CodeTimeout, Message: "timed out waiting for the browser sign-in"}
	}
	if res.err != nil {
		return Profile{}, res.err
	}

	tok, err := conf.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return Profile{}, classifyTokenError(err)
	}

	profile, err := p.fetchProfile(ctx, conf.Client(ctx, tok))
	if err != nil {
		return Profile{}, err
	}

	p.mu.Lock()
	p.token = tok
	p.mu.Unlock()
	return profile, nil
}

// SignOut forgets the access token
func (p *GoogleProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.token = nil
	p.mu.Unlock()
	return nil
}

func parseCallback(r *http.Request, state string) callbackResult {
	q := r.URL.Query()
	if q.Get("state") != state {
		return callbackResult{err: &Error{Code: CodeInternal, Message: "sign-in state mismatch"}}
	}
	if e := q.Get("error"); e != "" {
		desc := q.Get("error_description")
		switch e {
		case "access_denied":
			return callbackResult{err: &Error{Code: CodePopupClosed, Message: "sign-in was cancelled in the browser"}}
		case "unauthorized_client", "invalid_client":
			return callbackResult{err: &Error{Code: CodeOperationNotAllowed, Message: desc}}
		default:
			return callbackResult{err: &Error{Code: CodeInternal, Message: strings.TrimSpace(e + " " + desc)}}
		}
	}
	code := q.Get("code")
	if code == "" {
		return callbackResult{err: &Error{Code: CodeInternal, Message: "callback carried no authorization code"}}
	}
	return callbackResult{code: code}
}

func classifyTokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		switch {
		case isServiceDisabled(re.Response, re.Body):
			return &Error{Code: CodeAPIDisabled, Message: string(re.Body), Err: err}
		case re.ErrorCode == "unauthorized_client", re.ErrorCode == "invalid_client":
			return &Error{Code: CodeOperationNotAllowed, Message: re.ErrorDescription, Err: err}
		}
	}
	return &Error{Code: CodeInternal, Message: "token exchange failed", Err: err}
}

func isServiceDisabled(resp *http.Response, body []byte) bool {
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		return false
	}
	s := string(body)
	return strings.Contains(s, "SERVICE_DISABLED") ||
		strings.Contains(s, "has not been used") ||
		strings.Contains(s, apiNotUsedMarker)
}

type userInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (p *GoogleProvider) fetchProfile(ctx context.Context, client *http.Client) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.UserInfoURL, nil)
	if err != nil {
		return Profile{}, &Error{Code: CodeInternal, Message: "bad userinfo url", Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Profile{}, &Error{Code: CodeInternal, Message: "userinfo request failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if isServiceDisabled(resp, body) {
		return Profile{}, &Error{Code: CodeAPIDisabled, Message: strings.TrimSpace(string(body))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Profile{}, &Error{Code: CodeInternal, Message: fmt.Sprintf("userinfo returned status %d", resp.StatusCode)}
	}

	var ui userInfo
	if err := json.Unmarshal(body, &ui); err != nil {
		return Profile{}, &Error{Code: CodeInternal, Message: "malformed userinfo response", Err: err}
	}
	if ui.Sub == "" {
		return Profile{}, &Error{Code: CodeInternal, Message: "userinfo response has no subject"}
	}
	return Profile{
		UID:         ui.Sub,
		DisplayName: ui.Name,
		PhotoURL:    ui.Picture,
		Email:       ui.Email,
	}, nil
}
