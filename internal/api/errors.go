package api

import "errors"

// Kind buckets gateway failures into the classes the UI reacts to.
type Kind int

const (
	// KindRemote covers network failures and 5xx-style server errors.
	KindRemote Kind = iota
	// KindAuth is a 401. The raw server text is never shown to the user.
	KindAuth
	// KindValidation is a 4xx the user can fix by changing their input.
	KindValidation
)

// AuthMessage is the only text ever surfaced for an authorization failure.
const AuthMessage = "access requires a valid link/token"

// genericMessage is the fallback when the server gives no usable message.
const genericMessage = "something went wrong talking to the server"

// Error is a gateway call failure.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsAuth reports whether err is an authorization failure.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsValidation reports whether err is a user-fixable input error.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindValidation
}

// UserMessage extracts the text to show for any error coming out of the
// gateway: the typed message when there is one, else the generic fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericMessage
}
