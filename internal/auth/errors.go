// ABOUTME: Sign-in error taxonomy and user-facing banners
// ABOUTME: Maps provider failures onto the titled messages shown at the login gate
package auth

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeUnauthorizedDomain  = "auth/unauthorized-domain"
	CodePopupBlocked        = "auth/popup-blocked"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
	CodePopupClosed         = "auth/popup-closed-by-user"
	CodeTimeout             = "auth/timeout"
	CodeInternal            = "auth/internal-error"

	// CodeAPIDisabled is the banner code for a disabled identity API
	CodeAPIDisabled = "api-disabled"
)

// apiNotUsedMarker appears in Google errors when the identity API was never enabled
const apiNotUsedMarker = "identity-toolkit-api-has-not-been-used"

// Error is a classified sign-in failure
type Error struct {
	Code    string
	Message string
	// Host is set for unauthorized-domain failures
	Host string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of an *Error in err's chain, or "" if there is none
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Banner is the dismissible message shown after a failed sign-in
type Banner struct {
	Title   string
	Message string
	Code    string
	Host    string
}

// Describe turns a sign-in error into a banner
func Describe(err error) Banner {
	if err == nil {
		return Banner{}
	}

	var ae *Error
	if !errors.As(err, &ae) {
		ae = &Error{Message: err.Error()}
	}

	switch {
	case ae.Code == CodeUnauthorizedDomain:
		return Banner{
			Title: "Domain Not Authorized",
			Message: fmt.Sprintf("The redirect host %q is not authorized for this OAuth client. "+
				"Add it to auth.authorized_hosts and to the client's authorized redirect URIs in the Google Cloud Console.", ae.Host),
			Code: CodeUnauthorizedDomain,
			Host: ae.Host,
		}
	case ae.Code == CodePopupBlocked:
		return Banner{
			Title:   "Popup Blocked!",
			Message: "Your browser blocked the sign-in window. Please allow popups for this site in your browser settings or enter as a Guest.",
			Code:    CodePopupBlocked,
		}
	case ae.Code == CodeOperationNotAllowed, ae.Code == CodeAPIDisabled, strings.Contains(err.Error(), apiNotUsedMarker):
		return Banner{
			Title:   "API Not Enabled",
			Message: "The 'Identity Toolkit API' needs to be enabled in your Google Cloud Console for this project. Also ensure Google is enabled as a sign-in provider.",
			Code:    CodeAPIDisabled,
		}
	default:
		msg := ae.Message
		if msg == "" && ae.Err != nil {
			msg = ae.Err.Error()
		}
		if msg == "" {
			msg = "An unexpected error occurred during sign-in. Try Guest Mode."
		}
		return Banner{
			Title:   "Sign-in Failed",
			Message: msg,
			Code:    ae.Code,
		}
	}
}
