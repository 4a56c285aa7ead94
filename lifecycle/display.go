package lifecycle

import (
	"fmt"
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysUntilExpiry rounds the time left up to whole days. Once the expiry has
// passed the result is negative, even for expiries only minutes old.
func DaysUntilExpiry(expiry, now time.Time) int {
	days := float64(expiry.Sub(now)) / float64(day)
	if days < 0 {
		return int(math.Floor(days))
	}
	return int(math.Ceil(days))
}

func IsExpiringSoon(expiry, now time.Time) bool {
	return DaysUntilExpiry(expiry, now) <= 1
}

// IsExpiringSoonHours is the tighter check used on the map, where a pin is
// flagged only in its last six hours.
func IsExpiringSoonHours(expiry, now time.Time) bool {
	return expiry.Sub(now) <= 6*time.Hour
}

func TimeAgo(t, now time.Time) string {
	hours := int(now.Sub(t) / time.Hour)
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}

// TimelineStep is one of the four stages shown on a post's status timeline.
type TimelineStep struct {
	Status    Status     `json:"status"`
	Label     string     `json:"label"`
	At        *time.Time `json:"at,omitempty"`
	Completed bool       `json:"completed"`
}

func Timeline(s State, createdAt time.Time) []TimelineStep {
	created := createdAt
	return []TimelineStep{
		{Status: StatusPosted, Label: "Posted", At: &created, Completed: true},
		{Status: StatusClaimed, Label: "Claimed", At: s.ClaimedAt, Completed: s.Status.Reached(StatusClaimed)},
		{Status: StatusPickedUp, Label: "Picked Up", At: s.PickedUpAt, Completed: s.Status.Reached(StatusPickedUp)},
		{Status: StatusCompleted, Label: "Completed", At: s.CompletedAt, Completed: s.Status.Reached(StatusCompleted)},
	}
}

// ActionLabel is the text of the single primary control a client shows for
// the post. isDonation picks between the donation and request wording.
func ActionLabel(s State, a Actor, isDonation bool) string {
	switch {
	case s.Status == StatusPosted && s.IsOwner(a):
		return "Your Post"
	case s.Status == StatusPosted && isDonation:
		return "Claim Donation"
	case s.Status == StatusPosted:
		return "Offer Help"
	case s.Status == StatusClaimed && s.IsOwner(a):
		return "Approve Pickup"
	case s.Status == StatusPickedUp && (s.IsOwner(a) || s.IsClaimer(a)):
		return "Mark as Completed"
	case s.Status == StatusCompleted:
		return "Completed"
	default:
		return s.Status.Label()
	}
}
