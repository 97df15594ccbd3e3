package ledger

import (
	"context"
	"fmt"
)

// Source reads the posted ledger of one user, newest first.
type Source interface {
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
}

// ErrUnreadableEntry indicates a stored document that could not be decoded at all.
type ErrUnreadableEntry struct {
	ID  string
	Err error
}

func (e ErrUnreadableEntry) Error() string {
	return fmt.Sprintf("unreadable ledger entry %s: %v", e.ID, e.Err)
}

func (e ErrUnreadableEntry) Unwrap() error {
	return e.Err
}

// Is implements the errors.Is interface for ErrUnreadableEntry
func (e ErrUnreadableEntry) Is(target error) bool {
	t, ok := target.(ErrUnreadableEntry)
	if !ok {
		return false
	}
	// An empty target ID matches any unreadable entry
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}
