// ABOUTME: Tests for the Google browser sign-in flow
// ABOUTME: Fakes the browser and the OAuth endpoints with httptest
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeGoogle struct {
	srv            *httptest.Server
	userInfoStatus int
	userInfoBody   string
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	g := &fakeGoogle{
		userInfoStatus: http.StatusOK,
		userInfoBody:   `{"sub":"1234","name":"Ada Lovelace","email":"ada@example.com","picture":"https://example.com/ada.png"}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(g.userInfoStatus)
		fmt.Fprint(w, g.userInfoBody)
	})
	g.srv = httptest.NewServer(mux)
	t.Cleanup(g.srv.Close)
	return g
}

func (g *fakeGoogle) config(open func(string) error) GoogleConfig {
	return GoogleConfig{
		ClientID:        "client",
		ClientSecret:    "secret",
		RedirectHost:    "127.0.0.1",
		AuthorizedHosts: []string{"127.0.0.1", "localhost"},
		AuthURL:         g.srv.URL + "/auth",
		TokenURL:        g.srv.URL + "/token",
		UserInfoURL:     g.srv.URL + "/userinfo",
		Timeout:         5 * time.Second,
		OpenURL:         open,
	}
}

// browserReturning simulates the user completing consent with the given query
func browserReturning(t *testing.T, params url.Values) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		redirect := q.Get("redirect_uri")
		if q.Get("code_challenge") == "" {
			t.Error("expected PKCE challenge on the consent url")
		}

		cb := url.Values{}
		for k, v := range params {
			cb[k] = v
		}
		cb.Set("state", q.Get("state"))

		go func() {
			resp, err := http.Get(redirect + "?" + cb.Encode())
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestGoogleSignIn(t *testing.T) {
	g := newFakeGoogle(t)
	p := NewGoogleProvider(g.config(browserReturning(t, url.Values{"code": {"good-code"}})), zerolog.Nop())

	profile, err := p.SignIn(context.Background())
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	want := Profile{UID: "1234", DisplayName: "Ada Lovelace", Email: "ada@example.com", PhotoURL: "https://example.com/ada.png"}
	if profile != want {
		t.Errorf("expected %+v, got %+v", want, profile)
	}

	if err := p.SignOut(context.Background()); err != nil {
		t.Errorf("SignOut failed: %v", err)
	}
}

func TestGoogleSignInBrowserFailureIsPopupBlocked(t *testing.T) {
	g := newFakeGoogle(t)
	openErr := errors.New("no browser available")
	p := NewGoogleProvider(g.config(func(string) error { return openErr }), zerolog.Nop())

	_, err := p.SignIn(context.Background())
	if CodeOf(err) != CodePopupBlocked {
		t.Fatalf("expected popup-blocked, got %v", err)
	}
	if !errors.Is(err, openErr) {
		t.Error("expected the browser error in the chain")
	}
}

func TestGoogleSignInConfigErrors(t *testing.T) {
	g := newFakeGoogle(t)

	noClient := g.config(nil)
	noClient.ClientID = ""
	if _, err := NewGoogleProvider(noClient, zerolog.Nop()).SignIn(context.Background()); CodeOf(err) != CodeOperationNotAllowed {
		t.Errorf("missing client id: expected operation-not-allowed, got %v", err)
	}

	badHost := g.config(nil)
	badHost.RedirectHost = "0.0.0.0"
	_, err := NewGoogleProvider(badHost, zerolog.Nop()).SignIn(context.Background())
	var ae *Error
	if !errors.As(err, &ae) || ae.Code != CodeUnauthorizedDomain {
		t.Fatalf("expected unauthorized-domain, got %v", err)
	}
	if ae.Host != "0.0.0.0" {
		t.Errorf("expected host on error, got %q", ae.Host)
	}
}

func TestGoogleSignInServiceDisabled(t *testing.T) {
	g := newFakeGoogle(t)
	g.userInfoStatus = http.StatusForbidden
	g.userInfoBody = `{"error":{"code":403,"status":"PERMISSION_DENIED","details":[{"reason":"SERVICE_DISABLED"}]}}`
	p := NewGoogleProvider(g.config(browserReturning(t, url.Values{"code": {"good-code"}})), zerolog.Nop())

	_, err := p.SignIn(context.Background())
	if CodeOf(err) != CodeAPIDisabled {
		t.Fatalf("expected api-disabled, got %v", err)
	}
	if Describe(err).Title != "API Not Enabled" {
		t.Errorf("unexpected banner %q", Describe(err).Title)
	}
}

func TestGoogleSignInCallbackErrors(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   string
	}{
		{"user cancelled", url.Values{"error": {"access_denied"}}, CodePopupClosed},
		{"client not allowed", url.Values{"error": {"unauthorized_client"}}, CodeOperationNotAllowed},
		{"no code", url.Values{}, CodeInternal},
		{"bad code", url.Values{"code": {"wrong"}}, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGoogle(t)
			p := NewGoogleProvider(g.config(browserReturning(t, tt.params)), zerolog.Nop())

			_, err := p.SignIn(context.Background())
			if CodeOf(err) != tt.want {
				t.Fatalf("expected %s, got %v", tt.want, err)
			}
		})
	}
}

func TestGoogleSignInTimeout(t *testing.T) {
	g := newFakeGoogle(t)
	cfg := g.config(func(string) error { return nil })
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewGoogleProvider(cfg, zerolog.Nop()).SignIn(context.Background())
	if CodeOf(err) != CodeTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}
