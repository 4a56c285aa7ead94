// File: /services/post_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"foodshare-api/lifecycle"
	"foodshare-api/models"
	"foodshare-api/repositories"
	"foodshare-api/utils"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 5000
	maxQuantityLength    = 255
	maxMessageLength     = 1000
)

var expiryLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

type transitionFunc func(lifecycle.State, lifecycle.Actor, time.Time) (lifecycle.Change, error)

type PostService struct {
	posts        PostStore
	interactions InteractionStore
	profiles     *ProfileService
	notifier     Notifier
	cache        *PostCache
	sanitizer    *Sanitizer
	logger       *slog.Logger
	now          func() time.Time
}

func NewPostService(posts PostStore, interactions InteractionStore, profiles *ProfileService, notifier Notifier, cache *PostCache, sanitizer *Sanitizer, logger *slog.Logger) *PostService {
	return &PostService{
		posts:        posts,
		interactions: interactions,
		profiles:     profiles,
		notifier:     notifier,
		cache:        cache,
		sanitizer:    sanitizer,
		logger:       logger,
		now:          utcNow,
	}
}

// WithClock replaces the time source, for tests
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// ExpiringSoon is the only accepted value of ListQuery.Expiring
const ExpiringSoon = "soon"

// ListQuery holds the optional filters of the public post listing
type ListQuery struct {
	Type   models.PostType
	Status lifecycle.Status
	Search string

	// Expiring keeps open posts that expire within a day or already have
	Expiring string
}

// MapQuery centres the map on a point. Without a centre every pin is returned.
type MapQuery struct {
	Latitude  *float64
	Longitude *float64
	RadiusKm  float64
}

// Create validates and stores a new POSTED post owned by the user
func (s *PostService) Create(ctx context.Context, user models.User, req models.CreatePostRequest) (*models.PostView, error) {
	if user.ID == "" {
		return nil, lifecycle.ErrUnauthenticated
	}

	now := s.now()
	post, err := s.newPost(user, req, now)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeError("create post", err)
	}
	s.cache.Invalidate()
	s.profiles.Remember(ctx, user)

	s.logger.Info("post created", "post_id", post.ID, "owner_id", post.OwnerID, "type", post.Type)
	view := buildView(post, user.Actor(), now, false)
	return &view, nil
}

func (s *PostService) newPost(user models.User, req models.CreatePostRequest, now time.Time) (*models.Post, error) {
	if !req.Type.Valid() {
		return nil, validationError("type must be donation or request")
	}

	title := s.sanitizer.Text(req.Title)
	description := s.sanitizer.Text(req.Description)
	quantity := s.sanitizer.Text(req.Quantity)
	address := s.sanitizer.Text(req.Location.Address)

	switch {
	case title == "":
		return nil, validationError("title is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return nil, validationError("title must be at most %d characters", maxTitleLength)
	case description == "":
		return nil, validationError("description is required")
	case utf8.RuneCountInString(description) > maxDescriptionLength:
		return nil, validationError("description must be at most %d characters", maxDescriptionLength)
	case quantity == "":
		return nil, validationError("quantity is required")
	case utf8.RuneCountInString(quantity) > maxQuantityLength:
		return nil, validationError("quantity must be at most %d characters", maxQuantityLength)
	case address == "":
		return nil, validationError("location address is required")
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, validationError("latitude and longitude must be given together")
	}
	if req.Latitude != nil && (!utils.IsValidLatitude(*req.Latitude) || !utils.IsValidLongitude(*req.Longitude)) {
		return nil, validationError("invalid coordinates")
	}

	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if !expiry.After(now) {
		return nil, validationError("expiry date must be in the future")
	}

	return &models.Post{
		ID:          uuid.New().String(),
		Type:        req.Type,
		Title:       title,
		Description: description,
		Quantity:    quantity,
		Location:    models.Location{Address: address},
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ExpiryDate:  expiry,
		OwnerID:     user.ID,
		OwnerName:   user.DisplayName(),
		Status:      lifecycle.StatusPosted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func parseExpiry(value string) (time.Time, error) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationError("expiry_date must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

func (s *PostService) list(ctx context.Context, filter repositories.PostFilter) ([]models.Post, error) {
	key := filter.Key()
	if posts, ok := s.cache.Get(key); ok {
		return posts, nil
	}
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, storeError("list posts", err)
	}
	s.cache.Set(key, posts)
	return posts, nil
}

// List returns the community feed, newest first, decorated for the viewer
func (s *PostService) List(ctx context.Context, viewer models.User, q ListQuery) ([]models.PostView, error) {
	filter := repositories.PostFilter{Type: q.Type, Search: q.Search}
	if q.Type != "" && !q.Type.Valid() {
		return nil, validationError("type must be donation or request")
	}
	if q.Status != "" {
		if !q.Status.Valid() {
			return nil, validationError("unknown status %q", q.Status)
		}
		filter.Statuses = []lifecycle.Status{q.Status}
	}
	if q.Expiring != "" && q.Expiring != ExpiringSoon {
		return nil, validationError("expiring must be %q", ExpiringSoon)
	}

	posts, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := buildViews(posts, viewer.Actor(), s.now())
	if q.Expiring == ExpiringSoon {
		views = expiringSoon(views)
	}
	return views, nil
}

// expiringSoon is applied after the cache, since the answer moves with the
// clock while the cached rows do not.
func expiringSoon(views []models.PostView) []models.PostView {
	kept := views[:0]
	for _, v := range views {
		if v.ExpiringSoon && v.Status != lifecycle.StatusCompleted {
			kept = append(kept, v)
		}
	}
	return kept
}

// ListMine returns the posts the user owns
func (s *PostService) ListMine(ctx context.Context, user models.User) ([]models.PostView, error) {
	if user.ID == "" {
		return nil, lifecycle.ErrUnauthenticated
	}
	posts, err := s.list(ctx, repositories.PostFilter{OwnerID: user.ID})
	if err != nil {
		return nil, err
	}
	return buildViews(posts, user.Actor(), s.now()), nil
}

// Get returns one post with its timeline and interaction count
func (s *PostService) Get(ctx context.Context, viewer models.User, id string) (*models.PostView, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	view := buildView(post, viewer.Actor(), s.now(), true)
	count, err := s.interactions.CountByPost(ctx, id)
	if err != nil {
		s.logger.Warn("failed to count interactions", "post_id", id, "error", err)
	} else {
		view.InteractionCount = &count
	}
	return &view, nil
}

// MapPins returns posts that carry coordinates, optionally limited to a radius
func (s *PostService) MapPins(ctx context.Context, q MapQuery) ([]models.MapPin, error) {
	centred := q.Latitude != nil && q.Longitude != nil
	if centred && (!utils.IsValidLatitude(*q.Latitude) || !utils.IsValidLongitude(*q.Longitude)) {
		return nil, validationError("invalid coordinates")
	}
	if q.RadiusKm < 0 {
		return nil, validationError("radius_km must not be negative")
	}

	posts, err := s.list(ctx, repositories.PostFilter{WithCoordinates: true})
	if err != nil {
		return nil, err
	}

	now := s.now()
	pins := make([]models.MapPin, 0, len(posts))
	for _, post := range posts {
		pin := models.MapPin{
			ID:           post.ID,
			Type:         post.Type,
			Title:        post.Title,
			Status:       post.Status,
			Latitude:     *post.Latitude,
			Longitude:    *post.Longitude,
			ExpiringSoon: lifecycle.IsExpiringSoonHours(post.ExpiryDate, now),
		}
		if centred {
			distance := calculateDistance(*q.Latitude, *q.Longitude, pin.Latitude, pin.Longitude)
			if q.RadiusKm > 0 && distance > q.RadiusKm {
				continue
			}
			pin.DistanceKm = &distance
		}
		pins = append(pins, pin)
	}
	return pins, nil
}

// Stats counts posts per lifecycle status
func (s *PostService) Stats(ctx context.Context) (*models.PostStats, error) {
	counts, err := s.posts.CountByStatus(ctx)
	if err != nil {
		return nil, storeError("post stats", err)
	}
	stats := &models.PostStats{
		Available: int(counts[lifecycle.StatusPosted]),
		Claimed:   int(counts[lifecycle.StatusClaimed]),
		PickedUp:  int(counts[lifecycle.StatusPickedUp]),
		Completed: int(counts[lifecycle.StatusCompleted]),
	}
	stats.Total = stats.Available + stats.Claimed + stats.PickedUp + stats.Completed
	return stats, nil
}

// Claim commits the user to a POSTED post and opens their interaction on it
func (s *PostService) Claim(ctx context.Context, user models.User, id, message string) (*models.PostView, error) {
	message = s.sanitizer.Text(message)
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, validationError("message must be at most %d characters", maxMessageLength)
	}

	post, change, err := s.transition(ctx, user, id, lifecycle.Claim)
	if err != nil {
		return nil, err
	}
	s.profiles.Remember(ctx, user)

	interaction := &models.Interaction{
		ID:              uuid.New().String(),
		PostID:          post.ID,
		UserID:          user.ID,
		UserName:        change.ClaimedByName,
		InteractionType: models.InteractionTypeFor(post.Type),
		Status:          models.InteractionPending,
		CreatedAt:       post.UpdatedAt,
		UpdatedAt:       post.UpdatedAt,
	}
	if message != "" {
		interaction.Message = &message
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		s.logger.Error("failed to record interaction", "post_id", post.ID, "user_id", user.ID, "error", err)
	}

	s.notifier.Notify(ctx, models.CreateNotificationParams{
		Type:        models.NotificationTypeClaim,
		ActorID:     user.ID,
		ActorName:   change.ClaimedByName,
		RecipientID: post.OwnerID,
		PostID:      post.ID,
		PostTitle:   post.Title,
	})

	view := buildView(post, user.Actor(), s.now(), true)
	return &view, nil
}

// ApprovePickup lets the owner confirm the claimer collected the food
func (s *PostService) ApprovePickup(ctx context.Context, user models.User, id string) (*models.PostView, error) {
	post, _, err := s.transition(ctx, user, id, lifecycle.ApprovePickup)
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, post, post.State().ClaimedBy, lifecycle.ActionApprovePickup)

	s.notifier.Notify(ctx, models.CreateNotificationParams{
		Type:        models.NotificationTypePickupApproved,
		ActorID:     user.ID,
		ActorName:   user.DisplayName(),
		RecipientID: post.State().ClaimedBy,
		PostID:      post.ID,
		PostTitle:   post.Title,
	})

	view := buildView(post, user.Actor(), s.now(), true)
	return &view, nil
}

// ConfirmCompletion closes the exchange. Either participant may call it.
func (s *PostService) ConfirmCompletion(ctx context.Context, user models.User, id string) (*models.PostView, error) {
	post, _, err := s.transition(ctx, user, id, lifecycle.ConfirmCompletion)
	if err != nil {
		return nil, err
	}
	state := post.State()
	s.mirror(ctx, post, state.ClaimedBy, lifecycle.ActionConfirmCompletion)

	s.notifier.Notify(ctx, models.CreateNotificationParams{
		Type:        models.NotificationTypeCompleted,
		ActorID:     user.ID,
		ActorName:   user.DisplayName(),
		RecipientID: counterpart(state, user.ID),
		PostID:      post.ID,
		PostTitle:   post.Title,
	})

	view := buildView(post, user.Actor(), s.now(), true)
	return &view, nil
}

// CancelClaim returns a CLAIMED post to POSTED
func (s *PostService) CancelClaim(ctx context.Context, user models.User, id string) (*models.PostView, error) {
	var before lifecycle.State
	post, _, err := s.transitionFrom(ctx, user, id, lifecycle.CancelClaim, &before)
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, post, before.ClaimedBy, lifecycle.ActionCancelClaim)

	s.notifier.Notify(ctx, models.CreateNotificationParams{
		Type:        models.NotificationTypeClaimCancelled,
		ActorID:     user.ID,
		ActorName:   user.DisplayName(),
		RecipientID: counterpart(before, user.ID),
		PostID:      post.ID,
		PostTitle:   post.Title,
	})

	view := buildView(post, user.Actor(), s.now(), true)
	return &view, nil
}

// Delete removes the owner's post unless it has been completed
func (s *PostService) Delete(ctx context.Context, user models.User, id string) error {
	actor := user.Actor()
	if !actor.Authenticated() {
		return lifecycle.ErrUnauthenticated
	}
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.CanDelete(post.State(), actor); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id, user.ID); err != nil {
		return storeError("delete post", err)
	}
	s.cache.Invalidate()
	s.logger.Info("post deleted", "post_id", id, "owner_id", user.ID)
	return nil
}

// CleanupExpired deletes POSTED posts that expired more than grace ago
func (s *PostService) CleanupExpired(ctx context.Context, grace time.Duration) (int64, error) {
	deleted, err := s.posts.DeleteExpired(ctx, s.now().Add(-grace))
	if err != nil {
		return 0, storeError("delete expired posts", err)
	}
	if deleted > 0 {
		s.cache.Invalidate()
	}
	return deleted, nil
}

func (s *PostService) load(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("post", err)
	}
	return post, nil
}

func (s *PostService) transition(ctx context.Context, user models.User, id string, step transitionFunc) (*models.Post, lifecycle.Change, error) {
	return s.transitionFrom(ctx, user, id, step, nil)
}

// transitionFrom runs one lifecycle step against the stored post and writes
// it conditionally. If before is non-nil it receives the pre-change state.
func (s *PostService) transitionFrom(ctx context.Context, user models.User, id string, step transitionFunc, before *lifecycle.State) (*models.Post, lifecycle.Change, error) {
	actor := user.Actor()
	if !actor.Authenticated() {
		return nil, lifecycle.Change{}, lifecycle.ErrUnauthenticated
	}

	post, err := s.load(ctx, id)
	if err != nil {
		return nil, lifecycle.Change{}, err
	}
	if before != nil {
		*before = post.State()
	}

	now := s.now()
	change, err := step(post.State(), actor, now)
	if err != nil {
		return nil, lifecycle.Change{}, err
	}

	if err := s.posts.ApplyChange(ctx, id, change, now); err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			s.logger.Info("lost transition race", "post_id", id, "action", change.Action, "user_id", user.ID)
		}
		return nil, lifecycle.Change{}, storeError(fmt.Sprintf("%s post", change.Action), err)
	}
	s.cache.Invalidate()
	post.ApplyChange(change, now)

	s.logger.Info("post transitioned",
		"post_id", id, "action", change.Action, "from", change.From, "to", change.To, "user_id", user.ID)
	return post, change, nil
}

// mirror copies the post transition onto the claimer's open interaction
func (s *PostService) mirror(ctx context.Context, post *models.Post, claimerID string, action lifecycle.Action) {
	status, ok := models.InteractionStatusFor(action)
	if !ok || claimerID == "" {
		return
	}
	if err := s.interactions.MirrorStatus(ctx, post.ID, claimerID, status); err != nil {
		s.logger.Error("failed to update interaction status",
			"post_id", post.ID, "user_id", claimerID, "status", status, "error", err)
	}
}

// counterpart is the other participant of the exchange
func counterpart(s lifecycle.State, actorID string) string {
	if actorID == s.OwnerID {
		return s.ClaimedBy
	}
	return s.OwnerID
}
