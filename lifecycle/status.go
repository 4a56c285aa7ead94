// Package lifecycle holds the rules for moving a food post through
// POSTED -> CLAIMED -> PICKED_UP -> COMPLETED. It knows nothing about HTTP or
// storage: callers pass in a State snapshot and an Actor and get back either
// a Change to persist or an error explaining why the action is not allowed.
package lifecycle

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPosted    Status = "POSTED"
	StatusClaimed   Status = "CLAIMED"
	StatusPickedUp  Status = "PICKED_UP"
	StatusCompleted Status = "COMPLETED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPosted, StatusClaimed, StatusPickedUp, StatusCompleted}

func (s Status) rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	return s.rank() >= 0
}

// Reached reports whether s is at or past target.
func (s Status) Reached(target Status) bool {
	return s.Valid() && s.rank() >= target.rank()
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Label is the badge text shown for a status.
func (s Status) Label() string {
	if s == StatusPosted {
		return "Available"
	}
	return strings.ReplaceAll(string(s), "_", " ")
}

// Actor is the user attempting an action. A zero ID means anonymous.
type Actor struct {
	ID          string
	DisplayName string
}

func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// State is the lifecycle-relevant snapshot of a post.
type State struct {
	Status        Status
	OwnerID       string
	OwnerName     string
	ClaimedBy     string
	ClaimedByName string
	ClaimedAt     *time.Time
	PickedUpAt    *time.Time
	CompletedAt   *time.Time
}

func (s State) IsOwner(a Actor) bool {
	return a.Authenticated() && a.ID == s.OwnerID
}

func (s State) IsClaimer(a Actor) bool {
	return a.Authenticated() && s.ClaimedBy != "" && a.ID == s.ClaimedBy
}

// DisplayName resolves the name recorded for a user at action time: the
// profile full name, else the local part of the email, else "Unknown User".
func DisplayName(fullName, email string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(strings.TrimSpace(email), "@"); ok && local != "" {
		return local
	}
	return "Unknown User"
}
