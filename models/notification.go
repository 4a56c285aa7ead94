// File: /models/notification.go
package models

import (
	"fmt"
	"foodshare-api/lifecycle"
	"time"
)

type NotificationType string

const (
	NotificationTypeClaim          NotificationType = "claim"
	NotificationTypePickupApproved NotificationType = "pickup_approved"
	NotificationTypeCompleted      NotificationType = "completed"
	NotificationTypeClaimCancelled NotificationType = "claim_cancelled"
	NotificationTypeRating         NotificationType = "rating"
)

type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;size:191"`
	UserID    string           `json:"user_id" gorm:"not null;size:191;index"` // Who receives the notification
	ActorID   string           `json:"actor_id" gorm:"not null;size:191"`      // Who performed the action
	PostID    *string          `json:"post_id" gorm:"size:191"`
	Type      NotificationType `json:"type" gorm:"not null;size:50"`
	Title     string           `json:"title" gorm:"not null;size:255"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NotificationResponse represents the API response for notifications
type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	ActorID   string           `json:"actor_id"`
	PostID    *string          `json:"post_id,omitempty"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	TimeAgo   string           `json:"time_ago"`
}

// NotificationStats represents notification statistics
type NotificationStats struct {
	UnreadCount int64 `json:"unread_count"`
	TotalCount  int64 `json:"total_count"`
}

// PaginatedNotifications represents paginated notification response
type PaginatedNotifications struct {
	Notifications []NotificationResponse `json:"notifications"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	Total         int64                  `json:"total"`
	HasMore       bool                   `json:"has_more"`
	TotalPages    int                    `json:"total_pages"`
}

// CreateNotificationParams for creating new notifications
type CreateNotificationParams struct {
	Type        NotificationType
	ActorID     string
	ActorName   string
	RecipientID string
	PostID      string
	PostTitle   string
}

// NotificationTitle returns the heading shown in the bell dropdown
func NotificationTitle(t NotificationType) string {
	switch t {
	case NotificationTypeClaim:
		return "Your post was claimed"
	case NotificationTypePickupApproved:
		return "Pickup approved"
	case NotificationTypeCompleted:
		return "Exchange completed"
	case NotificationTypeClaimCancelled:
		return "Claim cancelled"
	case NotificationTypeRating:
		return "You received a rating"
	default:
		return "Notification"
	}
}

// NotificationMessage returns a human-readable message for the notification
func NotificationMessage(p CreateNotificationParams) string {
	switch p.Type {
	case NotificationTypeClaim:
		return fmt.Sprintf("%s claimed %q", p.ActorName, p.PostTitle)
	case NotificationTypePickupApproved:
		return fmt.Sprintf("%s approved your pickup of %q", p.ActorName, p.PostTitle)
	case NotificationTypeCompleted:
		return fmt.Sprintf("%s marked %q as completed. Don't forget to rate them!", p.ActorName, p.PostTitle)
	case NotificationTypeClaimCancelled:
		return fmt.Sprintf("%s cancelled the claim on %q", p.ActorName, p.PostTitle)
	case NotificationTypeRating:
		return fmt.Sprintf("%s rated you for %q", p.ActorName, p.PostTitle)
	default:
		return fmt.Sprintf("%s interacted with %q", p.ActorName, p.PostTitle)
	}
}

// ToResponse converts Notification to NotificationResponse
func (n *Notification) ToResponse(now time.Time) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		ActorID:   n.ActorID,
		PostID:    n.PostID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		TimeAgo:   lifecycle.TimeAgo(n.CreatedAt, now),
	}
}
