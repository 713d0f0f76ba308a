package ledger

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrForbidden is returned when the logged-in role may not perform an action.
	ErrForbidden = errors.New("only the mandap admin can do this")
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
)

// ValidationError maps form fields to the reason they were rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for field, or "" if it was accepted.
func (e *ValidationError) Field(field string) string {
	return e.Fields[field]
}
