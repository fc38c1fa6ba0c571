package babybuddy

import (
	"fmt"

	domainerrors "github.com/babybuddywidgets/bbclient/internal/errors"
)

// Error records a failed client operation and the kind or entry it addressed.
type Error struct {
	Op   string // "fetchPage", "getEntry", "createEntry", "deleteEntry", ...
	Kind Kind   // empty for kind-less operations
	ID   int    // entry id for single-entry operations, else 0
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind != "" && e.ID != 0:
		return fmt.Sprintf("babybuddy %s [%s/%d]: %v", e.Op, e.Kind, e.ID, e.Err)
	case e.Kind != "":
		return fmt.Sprintf("babybuddy %s [%s]: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("babybuddy %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IgnoreNotFound returns nil if err is a not found failure and err otherwise.
// It turns DeleteEntry into an idempotent operation.
func IgnoreNotFound(err error) error {
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return nil
	}
	return err
}
