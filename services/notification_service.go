package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"foodshare-api/models"
	"foodshare-api/utils"
)

type NotificationService struct {
	store    NotificationStore
	profiles *ProfileService
	mailer   Mailer
	fromName string
	logger   *slog.Logger
	now      func() time.Time
}

// NewNotificationService builds the service. mailer may be nil, in which case
// notifications are only stored in-app.
func NewNotificationService(store NotificationStore, profiles *ProfileService, mailer Mailer, fromName string, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:    store,
		profiles: profiles,
		mailer:   mailer,
		fromName: fromName,
		logger:   logger,
		now:      utcNow,
	}
}

// Notify records a notification for the recipient and emails them if a
// mailer is configured. Self-notifications are skipped.
func (s *NotificationService) Notify(ctx context.Context, params models.CreateNotificationParams) {
	if params.RecipientID == "" || params.RecipientID == params.ActorID {
		return
	}

	notification := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    params.RecipientID,
		ActorID:   params.ActorID,
		Type:      params.Type,
		Title:     models.NotificationTitle(params.Type),
		Message:   models.NotificationMessage(params),
		CreatedAt: s.now(),
	}
	if params.PostID != "" {
		postID := params.PostID
		notification.PostID = &postID
	}

	if err := s.store.Create(ctx, notification); err != nil {
		s.logger.Error("failed to create notification",
			"type", params.Type, "recipient_id", params.RecipientID, "error", err)
		return
	}

	if s.mailer != nil {
		s.email(ctx, notification)
	}
}

func (s *NotificationService) email(ctx context.Context, n *models.Notification) {
	profile, err := s.profiles.Get(ctx, n.UserID)
	if err != nil || profile == nil || !utils.IsValidEmail(profile.Email) {
		s.logger.Debug("no email address for notification recipient", "recipient_id", n.UserID)
		return
	}

	subject, text, html := notificationEmail(s.fromName, profile.FullName, n)
	go func() {
		if err := s.mailer.Send(profile.Email, subject, text, html); err != nil {
			s.logger.Warn("failed to email notification", "notification_id", n.ID, "error", err)
			return
		}
		s.logger.Info("notification emailed", "notification_id", n.ID, "recipient_id", n.UserID)
	}()
}

// List returns one page of the user's notifications
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (*models.PaginatedNotifications, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	notifications, total, err := s.store.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, storeError("notifications", err)
	}

	now := s.now()
	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notifications[i].ToResponse(now))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return &models.PaginatedNotifications{
		Notifications: responses,
		Page:          page,
		Limit:         limit,
		Total:         total,
		HasMore:       page < totalPages,
		TotalPages:    totalPages,
	}, nil
}

func (s *NotificationService) Stats(ctx context.Context, userID string) (*models.NotificationStats, error) {
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, storeError("notification stats", err)
	}
	_, total, err := s.store.ListByUser(ctx, userID, 0, 1)
	if err != nil {
		return nil, storeError("notification stats", err)
	}
	return &models.NotificationStats{UnreadCount: unread, TotalCount: total}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.store.MarkRead(ctx, id, userID); err != nil {
		return storeError("notification", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, storeError("notifications", err)
	}
	return n, nil
}
