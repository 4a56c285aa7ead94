// File: /lifecycle/transitions.go
package lifecycle

import "time"

type Action string

const (
	ActionClaim             Action = "claim"
	ActionApprovePickup     Action = "approve_pickup"
	ActionConfirmCompletion Action = "confirm_completion"
	ActionCancelClaim       Action = "cancel_claim"
	ActionDelete            Action = "delete"
)

func (a Action) verb() string {
	switch a {
	case ActionClaim:
		return "claim"
	case ActionApprovePickup:
		return "approve pickup of"
	case ActionConfirmCompletion:
		return "complete"
	case ActionCancelClaim:
		return "cancel the claim on"
	case ActionDelete:
		return "delete"
	default:
		return string(a)
	}
}

// Change is the set of fields a permitted transition writes. From is the
// status the post must still have when the write lands; stores use it as the
// compare-and-swap precondition.
type Change struct {
	Action Action
	From   Status
	To     Status

	ClaimedBy     string
	ClaimedByName string
	ClaimedAt     *time.Time
	PickedUpAt    *time.Time
	CompletedAt   *time.Time

	// ReleaseClaim clears claimed_by, claimed_by_name and claimed_at.
	ReleaseClaim bool
}

// Apply returns s with the change written to it.
func (c Change) Apply(s State) State {
	s.Status = c.To
	if c.ReleaseClaim {
		s.ClaimedBy = ""
		s.ClaimedByName = ""
		s.ClaimedAt = nil
	}
	if c.ClaimedBy != "" {
		s.ClaimedBy = c.ClaimedBy
		s.ClaimedByName = c.ClaimedByName
		s.ClaimedAt = c.ClaimedAt
	}
	if c.PickedUpAt != nil {
		s.PickedUpAt = c.PickedUpAt
	}
	if c.CompletedAt != nil {
		s.CompletedAt = c.CompletedAt
	}
	return s
}

// Claim commits a non-owner to a POSTED post.
func Claim(s State, a Actor, now time.Time) (Change, error) {
	if !a.Authenticated() {
		return Change{}, ErrUnauthenticated
	}
	if s.Status != StatusPosted {
		return Change{}, invalidTransition(ActionClaim, s.Status)
	}
	if s.IsOwner(a) {
		return Change{}, ErrOwnPost
	}

	name := a.DisplayName
	if name == "" {
		name = DisplayName("", "")
	}
	at := now.UTC()
	return Change{
		Action:        ActionClaim,
		From:          StatusPosted,
		To:            StatusClaimed,
		ClaimedBy:     a.ID,
		ClaimedByName: name,
		ClaimedAt:     &at,
	}, nil
}

// ApprovePickup lets the owner hand a CLAIMED post over to its claimer.
func ApprovePickup(s State, a Actor, now time.Time) (Change, error) {
	if !a.Authenticated() {
		return Change{}, ErrUnauthenticated
	}
	if s.Status != StatusClaimed {
		return Change{}, invalidTransition(ActionApprovePickup, s.Status)
	}
	if !s.IsOwner(a) {
		return Change{}, ErrNotOwner
	}

	at := now.UTC()
	return Change{
		Action:     ActionApprovePickup,
		From:       StatusClaimed,
		To:         StatusPickedUp,
		PickedUpAt: &at,
	}, nil
}

// ConfirmCompletion can be triggered by either party once the food has been
// picked up.
func ConfirmCompletion(s State, a Actor, now time.Time) (Change, error) {
	if !a.Authenticated() {
		return Change{}, ErrUnauthenticated
	}
	if s.Status != StatusPickedUp {
		return Change{}, invalidTransition(ActionConfirmCompletion, s.Status)
	}
	if !s.IsOwner(a) && !s.IsClaimer(a) {
		return Change{}, ErrNotParticipant
	}

	at := now.UTC()
	return Change{
		Action:      ActionConfirmCompletion,
		From:        StatusPickedUp,
		To:          StatusCompleted,
		CompletedAt: &at,
	}, nil
}

// CancelClaim returns a CLAIMED post to POSTED. The claimer may abandon the
// claim and the owner may release it.
func CancelClaim(s State, a Actor, _ time.Time) (Change, error) {
	if !a.Authenticated() {
		return Change{}, ErrUnauthenticated
	}
	if s.Status != StatusClaimed {
		return Change{}, invalidTransition(ActionCancelClaim, s.Status)
	}
	if !s.IsOwner(a) && !s.IsClaimer(a) {
		return Change{}, ErrNotParticipant
	}

	return Change{
		Action:       ActionCancelClaim,
		From:         StatusClaimed,
		To:           StatusPosted,
		ReleaseClaim: true,
	}, nil
}

// CanDelete checks whether a may delete the post. Completed posts are kept
// as the record the ratings hang off.
func CanDelete(s State, a Actor) error {
	if !a.Authenticated() {
		return ErrUnauthenticated
	}
	if !s.IsOwner(a) {
		return ErrNotOwner
	}
	if s.Status == StatusCompleted {
		return invalidTransition(ActionDelete, s.Status)
	}
	return nil
}

// RatingTarget returns the counterpart the actor should rate once the post is
// completed.
func RatingTarget(s State, a Actor) (userID, userName string, err error) {
	if !a.Authenticated() {
		return "", "", ErrUnauthenticated
	}
	if s.Status != StatusCompleted {
		return "", "", ErrInvalidTransition
	}
	switch {
	case s.IsOwner(a):
		if s.ClaimedBy == "" {
			return "", "", ErrInvalidTransition
		}
		return s.ClaimedBy, s.ClaimedByName, nil
	case s.IsClaimer(a):
		return s.OwnerID, s.OwnerName, nil
	default:
		return "", "", ErrNotParticipant
	}
}

// AvailableActions lists what a may do to the post right now, in the order a
// client should offer them.
func AvailableActions(s State, a Actor) []Action {
	if !a.Authenticated() {
		return nil
	}
	now := time.Now()
	candidates := []struct {
		action Action
		check  func() error
	}{
		{ActionClaim, func() error { _, err := Claim(s, a, now); return err }},
		{ActionApprovePickup, func() error { _, err := ApprovePickup(s, a, now); return err }},
		{ActionConfirmCompletion, func() error { _, err := ConfirmCompletion(s, a, now); return err }},
		{ActionCancelClaim, func() error { _, err := CancelClaim(s, a, now); return err }},
		{ActionDelete, func() error { return CanDelete(s, a) }},
	}

	var actions []Action
	for _, c := range candidates {
		if c.check() == nil {
			actions = append(actions, c.action)
		}
	}
	return actions
}
