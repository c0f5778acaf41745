package model

import "errors"

// Validation errors. Their messages are shown to the user verbatim.
var (
	ErrNoUserSelected = errors.New("Please select a user")
	ErrUnknownUser    = errors.New("Selected user no longer exists")
	ErrBodyTooShort   = errors.New("Body must be at least 20 characters.")
	ErrEmptyComment   = errors.New("Comment cannot be empty")
)

// ErrUnauthorized is returned when the session user tries to change an
// article they did not write.
var ErrUnauthorized = errors.New("Unauthorized")

var userFacing = []error{
	ErrNoUserSelected,
	ErrUnknownUser,
	ErrBodyTooShort,
	ErrEmptyComment,
	ErrUnauthorized,
}

// IsUserFacing reports whether err should be shown as an alert rather than
// treated as a remote failure.
func IsUserFacing(err error) bool {
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// UserMessage returns the text to show for err: the bare validation message
// when err wraps one, otherwise err's own text.
func UserMessage(err error) string {
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
