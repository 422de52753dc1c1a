package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("session not found")
	ErrOverbooking  = errors.New("overbooking constraint violation")
	ErrForbidden    = errors.New("forbidden")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ConflictError is returned by the service when a batch cannot be written.
// The full detector result is kept so handlers can render every collision.
type ConflictError struct {
	Result   ConflictResult
	Location *time.Location
}

func (e *ConflictError) Error() string {
	if e == nil || !e.Result.HasConflict() {
		return "schedule conflict"
	}
	msgs := make([]string, 0, len(e.Result.Conflicts))
	for _, c := range e.Result.Conflicts {
		msgs = append(msgs, c.Message(e.Location))
	}
	return "schedule conflict: " + strings.Join(msgs, "; ")
}
