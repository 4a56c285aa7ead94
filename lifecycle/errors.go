package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("action not permitted")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOwnPost is shown to owners as "Your Post" rather than as a failure.
	ErrOwnPost        = fmt.Errorf("%w: Your Post", ErrForbidden)
	ErrNotOwner       = fmt.Errorf("%w: only the post owner can do this", ErrForbidden)
	ErrNotParticipant = fmt.Errorf("%w: only the owner or the claimer can do this", ErrForbidden)
)

func invalidTransition(action Action, from Status) error {
	return fmt.Errorf("%w: cannot %s a post that is %s", ErrInvalidTransition, action.verb(), from)
}
