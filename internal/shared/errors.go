package shared

import "errors"

var (
	// ErrNotLoggedIn indicates a request without an authenticated session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrAccessDenied indicates the section is outside the user's access list.
	ErrAccessDenied = errors.New("access denied")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
