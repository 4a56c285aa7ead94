package services

import (
	"context"
	"time"

	"foodshare-api/lifecycle"
	"foodshare-api/models"
	"foodshare-api/repositories"
)

// PostStore is satisfied by repositories.PostRepository.
// ApplyChange and Delete must be conditional writes that return
// repositories.ErrStatusConflict when the guard no longer holds.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter repositories.PostFilter) ([]models.Post, error)
	ApplyChange(ctx context.Context, id string, change lifecycle.Change, at time.Time) error
	Delete(ctx context.Context, id, ownerID string) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[lifecycle.Status]int64, error)
	CountByOwnerAndType(ctx context.Context, ownerID string, postType models.PostType) (int64, error)
}

type InteractionStore interface {
	Create(ctx context.Context, interaction *models.Interaction) error
	FindByID(ctx context.Context, id string) (*models.Interaction, error)
	List(ctx context.Context, filter repositories.InteractionFilter) ([]models.Interaction, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	MirrorStatus(ctx context.Context, postID, userID string, status models.InteractionStatus) error
	UpdateMessage(ctx context.Context, id, message string) error
}

// RatingStore.Create returns repositories.ErrDuplicate for a second rating
// of the same post by the same user.
type RatingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
	Exists(ctx context.Context, postID, fromUserID string) (bool, error)
	Summary(ctx context.Context, toUserID string) (float64, int64, error)
	Recent(ctx context.Context, toUserID string, limit int) ([]models.Rating, error)
}

type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type ProfileStore interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

// Notifier records a notification for the counterpart of an action.
// Failures are logged by the implementation, never returned.
type Notifier interface {
	Notify(ctx context.Context, params models.CreateNotificationParams)
}

// Mailer delivers a single email
type Mailer interface {
	Send(to, subject, textBody, htmlBody string) error
}

// Stores groups one backend's implementation of every port
type Stores struct {
	Posts         PostStore
	Interactions  InteractionStore
	Ratings       RatingStore
	Notifications NotificationStore
	Profiles      ProfileStore
}
