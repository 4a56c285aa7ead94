package services

import (
	"time"

	"foodshare-api/lifecycle"
	"foodshare-api/models"
)

func buildView(post *models.Post, viewer lifecycle.Actor, now time.Time, detail bool) models.PostView {
	state := post.State()
	actions := lifecycle.AvailableActions(state, viewer)
	if actions == nil {
		actions = []lifecycle.Action{}
	}

	view := models.PostView{
		Post:             *post,
		LocationText:     post.Location.Text(),
		StatusLabel:      post.Status.Label(),
		DaysUntilExpiry:  lifecycle.DaysUntilExpiry(post.ExpiryDate, now),
		ExpiringSoon:     lifecycle.IsExpiringSoon(post.ExpiryDate, now),
		CreatedAgo:       lifecycle.TimeAgo(post.CreatedAt, now),
		ActionLabel:      lifecycle.ActionLabel(state, viewer, post.IsDonation()),
		AvailableActions: actions,
	}
	if detail {
		view.Timeline = lifecycle.Timeline(state, post.CreatedAt)
	}
	return view
}

func buildViews(posts []models.Post, viewer lifecycle.Actor, now time.Time) []models.PostView {
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, buildView(&posts[i], viewer, now, false))
	}
	return views
}
