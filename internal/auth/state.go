// ABOUTME: Authentication state shared between the session and the UI
// ABOUTME: Defines the unauthenticated/guest/authenticated kinds and user profile
package auth

// Kind is the coarse authentication state
type Kind int

const (
	Unauthenticated Kind = iota
	Guest
	Authenticated
)

func (k Kind) String() string {
	switch k {
	case Guest:
		return "guest"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Profile is the signed-in user as reported by the identity provider
type Profile struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Email       string `json:"email,omitempty"`
}

// State is a snapshot of the session
type State struct {
	Kind      Kind
	Profile   Profile // zero unless Authenticated
	SessionID string  // empty when Unauthenticated
}

// Allowed reports whether the main screen may be shown
func (s State) Allowed() bool {
	return s.Kind == Guest || s.Kind == Authenticated
}

// Name is how the user is addressed in the header
func (s State) Name() string {
	switch s.Kind {
	case Authenticated:
		if s.Profile.DisplayName != "" {
			return s.Profile.DisplayName
		}
		if s.Profile.Email != "" {
			return s.Profile.Email
		}
		return "Comedian"
	case Guest:
		return "Guest"
	default:
		return ""
	}
}
