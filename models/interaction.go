package models

import (
	"time"

	"foodshare-api/lifecycle"
)

type InteractionType string

const (
	InteractionClaim InteractionType = "claim"
	InteractionOffer InteractionType = "offer"
)

// InteractionTypeFor picks claim for donations and offer for requests
func InteractionTypeFor(t PostType) InteractionType {
	if t == PostTypeRequest {
		return InteractionOffer
	}
	return InteractionClaim
}

type InteractionStatus string

const (
	InteractionPending   InteractionStatus = "pending"
	InteractionApproved  InteractionStatus = "approved"
	InteractionRejected  InteractionStatus = "rejected"
	InteractionCompleted InteractionStatus = "completed"
)

// InteractionStatusFor maps the post transition that just happened onto the
// mirrored interaction status. The post status stays authoritative.
func InteractionStatusFor(a lifecycle.Action) (InteractionStatus, bool) {
	switch a {
	case lifecycle.ActionClaim:
		return InteractionPending, true
	case lifecycle.ActionApprovePickup:
		return InteractionApproved, true
	case lifecycle.ActionConfirmCompletion:
		return InteractionCompleted, true
	case lifecycle.ActionCancelClaim:
		return InteractionRejected, true
	default:
		return "", false
	}
}

// Interaction records a user's claim on a donation or offer of help on a request
type Interaction struct {
	ID              string            `json:"id" gorm:"primaryKey;size:191"`
	PostID          string            `json:"post_id" gorm:"not null;size:191;index"`
	UserID          string            `json:"user_id" gorm:"not null;size:191;index"`
	UserName        string            `json:"user_name" gorm:"size:255"`
	InteractionType InteractionType   `json:"interaction_type" gorm:"not null;size:20"`
	Status          InteractionStatus `json:"status" gorm:"not null;size:20;default:pending"`
	Message         *string           `json:"message,omitempty" gorm:"type:text"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	Post *Post `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// UpdateMessageRequest is the body for editing an interaction message
type UpdateMessageRequest struct {
	Message string `json:"message"`
}
