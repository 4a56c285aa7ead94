package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"foodshare-api/lifecycle"
	"foodshare-api/models"
	"foodshare-api/repositories"
)

const recentRatings = 5

type RatingService struct {
	ratings   RatingStore
	posts     PostStore
	profiles  *ProfileService
	notifier  Notifier
	sanitizer *Sanitizer
	logger    *slog.Logger
	now       func() time.Time
}

func NewRatingService(ratings RatingStore, posts PostStore, profiles *ProfileService, notifier Notifier, sanitizer *Sanitizer, logger *slog.Logger) *RatingService {
	return &RatingService{
		ratings:   ratings,
		posts:     posts,
		profiles:  profiles,
		notifier:  notifier,
		sanitizer: sanitizer,
		logger:    logger,
		now:       utcNow,
	}
}

// Prompt tells a participant of a completed post whom they should rate
func (s *RatingService) Prompt(ctx context.Context, user models.User, postID string) (*models.RatingPrompt, error) {
	post, toID, toName, err := s.target(ctx, user, postID)
	if err != nil {
		return nil, err
	}
	rated, err := s.ratings.Exists(ctx, postID, user.ID)
	if err != nil {
		return nil, storeError("rating", err)
	}
	return &models.RatingPrompt{
		PostID:       post.ID,
		PostTitle:    post.Title,
		ToUserID:     toID,
		ToUserName:   toName,
		AlreadyRated: rated,
	}, nil
}

// Submit records the user's rating of their counterpart on a completed post
func (s *RatingService) Submit(ctx context.Context, user models.User, postID string, req models.CreateRatingRequest) (*models.Rating, error) {
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, validationError("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	comment := s.sanitizer.Text(req.Comment)
	if utf8.RuneCountInString(comment) > maxMessageLength {
		return nil, validationError("comment must be at most %d characters", maxMessageLength)
	}

	post, toID, _, err := s.target(ctx, user, postID)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		ID:           uuid.New().String(),
		PostID:       post.ID,
		FromUserID:   user.ID,
		FromUserName: user.DisplayName(),
		ToUserID:     toID,
		Rating:       req.Rating,
		CreatedAt:    s.now(),
	}
	if comment != "" {
		rating.Comment = &comment
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyRated
		}
		return nil, storeError("create rating", err)
	}
	s.profiles.Remember(ctx, user)
	s.logger.Info("rating submitted", "post_id", post.ID, "from_user_id", user.ID, "to_user_id", toID, "rating", req.Rating)

	s.notifier.Notify(ctx, models.CreateNotificationParams{
		Type:        models.NotificationTypeRating,
		ActorID:     user.ID,
		ActorName:   rating.FromUserName,
		RecipientID: toID,
		PostID:      post.ID,
		PostTitle:   post.Title,
	})
	return rating, nil
}

func (s *RatingService) target(ctx context.Context, user models.User, postID string) (*models.Post, string, string, error) {
	actor := user.Actor()
	if !actor.Authenticated() {
		return nil, "", "", lifecycle.ErrUnauthenticated
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, "", "", storeError("post", err)
	}
	toID, toName, err := lifecycle.RatingTarget(post.State(), actor)
	if err != nil {
		return nil, "", "", err
	}
	return post, toID, toName, nil
}

// UserStats summarises a user's activity and the ratings they received
func (s *RatingService) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	donations, err := s.posts.CountByOwnerAndType(ctx, userID, models.PostTypeDonation)
	if err != nil {
		return nil, storeError("user stats", err)
	}
	requests, err := s.posts.CountByOwnerAndType(ctx, userID, models.PostTypeRequest)
	if err != nil {
		return nil, storeError("user stats", err)
	}
	average, total, err := s.ratings.Summary(ctx, userID)
	if err != nil {
		return nil, storeError("user stats", err)
	}
	recent, err := s.ratings.Recent(ctx, userID, recentRatings)
	if err != nil {
		return nil, storeError("user stats", err)
	}
	if recent == nil {
		recent = []models.Rating{}
	}

	stats := &models.UserStats{
		UserID:         userID,
		TotalDonations: donations,
		TotalRequests:  requests,
		AverageRating:  math.Round(average*10) / 10,
		TotalRatings:   total,
		RecentRatings:  recent,
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load profile", "user_id", userID, "error", err)
	} else if profile != nil {
		stats.FullName = profile.FullName
	}
	return stats, nil
}
