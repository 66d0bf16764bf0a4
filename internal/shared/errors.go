package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable indicates the ERP backend could not be reached.
	ErrUpstreamUnavailable = errors.New("erp backend unavailable")
	// ErrMissingCredential indicates no bearer token was available for an upstream call.
	ErrMissingCredential = errors.New("missing credential")
)

// UserSafeError marks an error whose message may be shown to the operator verbatim.
type UserSafeError struct {
	Message string
	Err     error
}

func (e *UserSafeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserSafeError) Unwrap() error { return e.Err }

// UserSafeMessage extracts a message suitable for display. Internal errors
// collapse to a generic string so infrastructure details never leak to the UI.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var safe *UserSafeError
	if errors.As(err, &safe) {
		return safe.Message
	}
	if errors.Is(err, ErrNotFound) {
		return "The requested record was not found"
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		return "The ERP backend is not responding, try again"
	}
	return "Something went wrong, please try again"
}
