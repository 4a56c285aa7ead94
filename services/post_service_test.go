package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare-api/database"
	"foodshare-api/lifecycle"
	"foodshare-api/models"
)

var (
	ctx   = context.Background()
	alice = models.User{ID: "user-a", Email: "alice@example.com", FullName: "Alice"}
	bob   = models.User{ID: "user-b", Email: "bob@example.com"}
	carol = models.User{ID: "user-c", Email: "carol@example.com", FullName: "Carol"}
	anon  = models.User{}
)

type harness struct {
	stores        Stores
	posts         *PostService
	interactions  *InteractionService
	ratings       *RatingService
	notifications *NotificationService
	now           time.Time
}

func openStores(t *testing.T) Stores {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewStores(db)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := openStores(t)
	cache, err := NewPostCache(16, time.Minute)
	require.NoError(t, err)

	h := &harness{stores: stores, now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return h.now }
	sanitizer := NewSanitizer()

	profiles := NewProfileService(stores.Profiles, logger)
	h.notifications = NewNotificationService(stores.Notifications, profiles, nil, "FoodShare", logger)
	h.notifications.now = clock
	h.posts = NewPostService(stores.Posts, stores.Interactions, profiles, h.notifications, cache, sanitizer, logger).WithClock(clock)
	h.interactions = NewInteractionService(stores.Interactions, stores.Posts, h.posts, sanitizer, logger)
	h.ratings = NewRatingService(stores.Ratings, stores.Posts, profiles, h.notifications, sanitizer, logger)
	h.ratings.now = clock
	return h
}

func (h *harness) request(postType models.PostType) models.CreatePostRequest {
	return models.CreatePostRequest{
		Type:        postType,
		Title:       "Vegetable soup",
		Description: "Four portions, made this morning",
		Quantity:    "4 portions",
		Location:    models.Location{Address: "12 Market St"},
		ExpiryDate:  h.now.Add(48 * time.Hour).Format(time.RFC3339),
	}
}

func (h *harness) createPost(t *testing.T, owner models.User) *models.PostView {
	t.Helper()
	view, err := h.posts.Create(ctx, owner, h.request(models.PostTypeDonation))
	require.NoError(t, err)
	return view
}

func (h *harness) notificationTypes(t *testing.T, user models.User) []models.NotificationType {
	t.Helper()
	page, err := h.notifications.List(ctx, user.ID, 1, 50)
	require.NoError(t, err)
	var types []models.NotificationType
	for _, n := range page.Notifications {
		types = append(types, n.Type)
	}
	return types
}

func TestEndToEndExchange(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)
	assert.Equal(t, lifecycle.StatusPosted, post.Status)
	assert.Equal(t, "Alice", post.OwnerName)

	claimed, err := h.posts.Claim(ctx, bob, post.ID, "I can pick up after 6pm")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusClaimed, claimed.Status)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, bob.ID, *claimed.ClaimedBy)
	assert.Equal(t, "bob", *claimed.ClaimedByName)
	require.NotNil(t, claimed.ClaimedAt)
	assert.True(t, claimed.ClaimedAt.Equal(h.now))

	h.now = h.now.Add(time.Hour)
	picked, err := h.posts.ApprovePickup(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPickedUp, picked.Status)
	require.NotNil(t, picked.PickedUpAt)

	h.now = h.now.Add(time.Hour)
	done, err := h.posts.ConfirmCompletion(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	for _, step := range done.Timeline {
		assert.True(t, step.Completed, step.Label)
	}

	prompt, err := h.ratings.Prompt(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, prompt.ToUserID)
	assert.Equal(t, "Alice", prompt.ToUserName)
	assert.False(t, prompt.AlreadyRated)

	prompt, err = h.ratings.Prompt(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, prompt.ToUserID)

	_, err = h.ratings.Submit(ctx, bob, post.ID, models.CreateRatingRequest{Rating: 5, Comment: "Delicious, thanks!"})
	require.NoError(t, err)
	_, err = h.ratings.Submit(ctx, bob, post.ID, models.CreateRatingRequest{Rating: 4})
	assert.ErrorIs(t, err, ErrAlreadyRated)
	assert.Equal(t, "You have already rated this user for this post", err.Error())

	err = h.posts.Delete(ctx, alice, post.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	interactions, err := h.interactions.List(ctx, alice, post.ID)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, models.InteractionCompleted, interactions[0].Status)
	assert.Equal(t, models.InteractionClaim, interactions[0].InteractionType)

	assert.ElementsMatch(t,
		[]models.NotificationType{models.NotificationTypeClaim, models.NotificationTypeCompleted, models.NotificationTypeRating},
		h.notificationTypes(t, alice))
	assert.Equal(t, []models.NotificationType{models.NotificationTypePickupApproved}, h.notificationTypes(t, bob))

	stats, err := h.ratings.UserStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDonations)
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, 5.0, stats.AverageRating)
	assert.Equal(t, int64(1), stats.TotalRatings)
	assert.Equal(t, "Alice", stats.FullName)
	require.Len(t, stats.RecentRatings, 1)
	assert.Equal(t, "bob", stats.RecentRatings[0].FromUserName)
}

func TestConcurrentClaimsExactlyOneWins(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)

	const claimers = 12
	var wg sync.WaitGroup
	errs := make([]error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := models.User{ID: fmt.Sprintf("claimer-%d", i), Email: fmt.Sprintf("c%d@example.com", i)}
			_, errs[i] = h.posts.Claim(ctx, user, post.ID, "")
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, errors.Is(err, ErrConflict) || errors.Is(err, lifecycle.ErrInvalidTransition), err.Error())
	}
	assert.Equal(t, 1, winners)

	stored, err := h.posts.Get(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusClaimed, stored.Status)
	require.NotNil(t, stored.InteractionCount)
	assert.Equal(t, int64(1), *stored.InteractionCount)
}

func TestClaimRules(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)

	_, err := h.posts.Claim(ctx, alice, post.ID, "")
	assert.ErrorIs(t, err, lifecycle.ErrOwnPost)

	_, err = h.posts.Claim(ctx, anon, post.ID, "")
	assert.ErrorIs(t, err, lifecycle.ErrUnauthenticated)

	_, err = h.posts.Claim(ctx, bob, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.posts.Claim(ctx, bob, post.ID, "")
	require.NoError(t, err)

	_, err = h.posts.Claim(ctx, carol, post.ID, "")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	_, err = h.posts.ApprovePickup(ctx, bob, post.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotOwner)

	_, err = h.posts.ConfirmCompletion(ctx, alice, post.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestConfirmCompletionOnlyByParticipants(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)
	_, err := h.posts.Claim(ctx, bob, post.ID, "")
	require.NoError(t, err)
	_, err = h.posts.ApprovePickup(ctx, alice, post.ID)
	require.NoError(t, err)

	_, err = h.posts.ConfirmCompletion(ctx, carol, post.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotParticipant)

	done, err := h.posts.ConfirmCompletion(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCompleted, done.Status)
	assert.Equal(t, "Completed", done.ActionLabel)
	assert.Empty(t, done.AvailableActions)

	assert.ElementsMatch(t, []models.NotificationType{models.NotificationTypePickupApproved, models.NotificationTypeCompleted}, h.notificationTypes(t, bob))
}

func TestCancelClaimReleasesPost(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)
	_, err := h.posts.Claim(ctx, bob, post.ID, "")
	require.NoError(t, err)

	released, err := h.posts.CancelClaim(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPosted, released.Status)
	assert.Nil(t, released.ClaimedBy)
	assert.Nil(t, released.ClaimedByName)
	assert.Nil(t, released.ClaimedAt)

	mine, err := h.interactions.List(ctx, bob, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.InteractionRejected, mine[0].Status)

	assert.Contains(t, h.notificationTypes(t, alice), models.NotificationTypeClaimCancelled)

	_, err = h.posts.Claim(ctx, carol, post.ID, "")
	assert.NoError(t, err)
}

func TestDeletionRules(t *testing.T) {
	h := newHarness(t)

	posted := h.createPost(t, alice)
	assert.ErrorIs(t, h.posts.Delete(ctx, bob, posted.ID), lifecycle.ErrNotOwner)
	assert.ErrorIs(t, h.posts.Delete(ctx, anon, posted.ID), lifecycle.ErrUnauthenticated)
	require.NoError(t, h.posts.Delete(ctx, alice, posted.ID))
	_, err := h.posts.Get(ctx, alice, posted.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	claimed := h.createPost(t, alice)
	_, err = h.posts.Claim(ctx, bob, claimed.ID, "")
	require.NoError(t, err)
	require.NoError(t, h.posts.Delete(ctx, alice, claimed.ID))

	mine, err := h.interactions.List(ctx, bob, "")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t)
	lat := 40.4

	tests := []struct {
		name   string
		modify func(*models.CreatePostRequest)
	}{
		{"unknown type", func(r *models.CreatePostRequest) { r.Type = "swap" }},
		{"title only markup", func(r *models.CreatePostRequest) { r.Title = "<script>alert(1)</script>" }},
		{"missing quantity", func(r *models.CreatePostRequest) { r.Quantity = "  " }},
		{"missing address", func(r *models.CreatePostRequest) { r.Location.Address = "" }},
		{"expired", func(r *models.CreatePostRequest) { r.ExpiryDate = h.now.Add(-time.Hour).Format(time.RFC3339) }},
		{"bad expiry", func(r *models.CreatePostRequest) { r.ExpiryDate = "tomorrow" }},
		{"latitude alone", func(r *models.CreatePostRequest) { r.Latitude = &lat }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := h.request(models.PostTypeDonation)
			tt.modify(&req)
			_, err := h.posts.Create(ctx, alice, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := h.posts.Create(ctx, anon, h.request(models.PostTypeDonation))
	assert.ErrorIs(t, err, lifecycle.ErrUnauthenticated)
}

func TestCreateSanitizesText(t *testing.T) {
	h := newHarness(t)
	req := h.request(models.PostTypeRequest)
	req.Title = "<b>Fresh</b> bread & jam"
	req.Description = `Need some <a href="javascript:alert(1)">bread</a>`
	req.ExpiryDate = h.now.Add(72 * time.Hour).Format("2006-01-02")

	view, err := h.posts.Create(ctx, alice, req)
	require.NoError(t, err)
	assert.Equal(t, "Fresh bread & jam", view.Title)
	assert.Equal(t, "Need some bread", view.Description)
	assert.Equal(t, models.PostTypeRequest, view.Type)
}

func TestListDecoratesForViewer(t *testing.T) {
	h := newHarness(t)
	post := h.createPost(t, alice)

	views, err := h.posts.List(ctx, bob, ListQuery{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Claim Donation", views[0].ActionLabel)
	assert.Equal(t, []lifecycle.Action{lifecycle.ActionClaim}, views[0].AvailableActions)
	assert.Equal(t, 2, views[0].DaysUntilExpiry)
	assert.False(t, views[0].ExpiringSoon)
	assert.Equal(t, "Available", views[0].StatusLabel)
	assert.Equal(t, "Just now", views[0].CreatedAgo)

	views, err = h.posts.List(ctx, anon, ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, views[0].AvailableActions)

	views, err = h.posts.List(ctx, alice, ListQuery{Status: lifecycle.StatusClaimed})
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = h.posts.List(ctx, alice, ListQuery{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, ErrValidation)

	mine, err := h.posts.ListMine(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, post.ID, mine[0].ID)
	assert.Equal(t, "Your Post", mine[0].ActionLabel)
}

func TestListExpiringSoon(t *testing.T) {
	h := newHarness(t)
	h.createPost(t, alice)

	req := h.request(models.PostTypeDonation)
	req.ExpiryDate = h.now.Add(3 * time.Hour).Format(time.RFC3339)
	soon, err := h.posts.Create(ctx, alice, req)
	require.NoError(t, err)
	done, err := h.posts.Create(ctx, carol, req)
	require.NoError(t, err)

	_, err = h.posts.Claim(ctx, bob, done.ID, "")
	require.NoError(t, err)
	_, err = h.posts.ApprovePickup(ctx, carol, done.ID)
	require.NoError(t, err)
	_, err = h.posts.ConfirmCompletion(ctx, bob, done.ID)
	require.NoError(t, err)

	views, err := h.posts.List(ctx, bob, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, views, 3)

	views, err = h.posts.List(ctx, bob, ListQuery{Expiring: ExpiringSoon})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, soon.ID, views[0].ID)
	assert.True(t, views[0].ExpiringSoon)

	// The cached rows stay unfiltered.
	views, err = h.posts.List(ctx, bob, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, views, 3)

	h.now = h.now.Add(30 * time.Hour)
	views, err = h.posts.List(ctx, bob, ListQuery{Expiring: ExpiringSoon})
	require.NoError(t, err)
	assert.Len(t, views, 2, "the two-day post is now inside its last day")

	_, err = h.posts.List(ctx, bob, ListQuery{Expiring: "later"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMutationsInvalidateCache(t *testing.T) {
	h := newHarness(t)
	h.createPost(t, alice)

	_, err := h.posts.List(ctx, bob, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, h.posts.cache.Len())

	second := h.createPost(t, carol)
	assert.Equal(t, 0, h.posts.cache.Len())

	views, err := h.posts.List(ctx, bob, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, views, 2)

	_, err = h.posts.Claim(ctx, bob, second.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, h.posts.cache.Len())

	views, err = h.posts.List(ctx, bob, ListQuery{Status: lifecycle.StatusClaimed})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, second.ID, views[0].ID)
}

func TestMapPins(t *testing.T) {
	h := newHarness(t)
	madridLat, madridLng := 40.4168, -3.7038
	bcnLat, bcnLng := 41.3874, 2.1686

	req := h.request(models.PostTypeDonation)
	req.Latitude, req.Longitude = &madridLat, &madridLng
	_, err := h.posts.Create(ctx, alice, req)
	require.NoError(t, err)

	req = h.request(models.PostTypeRequest)
	req.Latitude, req.Longitude = &bcnLat, &bcnLng
	req.ExpiryDate = h.now.Add(3 * time.Hour).Format(time.RFC3339)
	_, err = h.posts.Create(ctx, alice, req)
	require.NoError(t, err)

	h.createPost(t, alice)

	pins, err := h.posts.MapPins(ctx, MapQuery{})
	require.NoError(t, err)
	require.Len(t, pins, 2)
	soon := map[models.PostType]bool{}
	for _, pin := range pins {
		soon[pin.Type] = pin.ExpiringSoon
	}
	assert.Equal(t, map[models.PostType]bool{models.PostTypeRequest: true, models.PostTypeDonation: false}, soon)

	near, err := h.posts.MapPins(ctx, MapQuery{Latitude: &madridLat, Longitude: &madridLng, RadiusKm: 50})
	require.NoError(t, err)
	require.Len(t, near, 1)
	require.NotNil(t, near[0].DistanceKm)
	assert.Equal(t, 0.0, *near[0].DistanceKm)

	bad := 120.0
	_, err = h.posts.MapPins(ctx, MapQuery{Latitude: &bad, Longitude: &madridLng})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	first := h.createPost(t, alice)
	h.createPost(t, alice)
	_, err := h.posts.Claim(ctx, bob, first.ID, "")
	require.NoError(t, err)

	stats, err := h.posts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Available)
	assert.Equal(t, 1, stats.Claimed)
	assert.Equal(t, 0, stats.Completed)
}

func TestCleanupExpired(t *testing.T) {
	h := newHarness(t)
	req := h.request(models.PostTypeDonation)
	req.ExpiryDate = h.now.Add(time.Hour).Format(time.RFC3339)
	stale, err := h.posts.Create(ctx, alice, req)
	require.NoError(t, err)

	claimedReq := req
	claimed, err := h.posts.Create(ctx, alice, claimedReq)
	require.NoError(t, err)
	_, err = h.posts.Claim(ctx, bob, claimed.ID, "")
	require.NoError(t, err)

	deleted, err := h.posts.CleanupExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	h.now = h.now.Add(48 * time.Hour)
	deleted, err = h.posts.CleanupExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = h.posts.Get(ctx, alice, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.posts.Get(ctx, alice, claimed.ID)
	assert.NoError(t, err)
}
