package show

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup for an entity that does not exist. The
// daemon maps it to HTTP 404.
var ErrNotFound = errors.New("not found")

// NotStuckError reports a reset attempt on an entity that is not in the
// generating state. Resetting a healthy entity would discard real work,
// so the recovery path refuses instead.
type NotStuckError struct {
	Kind  EntityKind
	ID    string
	State string
}

func (e *NotStuckError) Error() string {
	return fmt.Sprintf("%s %s: not stuck (state %q)", e.Kind, e.ID, e.State)
}
