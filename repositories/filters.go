package repositories

import (
	"foodshare-api/lifecycle"
	"foodshare-api/models"
	"strconv"
	"strings"
)

// PostFilter narrows a post listing. Zero fields do not filter.
type PostFilter struct {
	OwnerID         string
	Type            models.PostType
	Statuses        []lifecycle.Status
	WithCoordinates bool
	Search          string
	Limit           int
}

// Key identifies the filter in the post cache
func (f PostFilter) Key() string {
	statuses := make([]string, len(f.Statuses))
	for i, s := range f.Statuses {
		statuses[i] = string(s)
	}
	return strings.Join([]string{
		"owner=" + f.OwnerID,
		"type=" + string(f.Type),
		"status=" + strings.Join(statuses, ","),
		"coords=" + boolKey(f.WithCoordinates),
		"q=" + strings.ToLower(f.Search),
		"limit=" + strconv.Itoa(f.Limit),
	}, "|")
}

// InteractionFilter selects interactions either by post or by user
type InteractionFilter struct {
	PostID string
	UserID string
}

func boolKey(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
