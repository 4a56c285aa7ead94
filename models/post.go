// File: /models/post.go
package models

import (
	"time"

	"foodshare-api/lifecycle"
)

type PostType string

const (
	PostTypeDonation PostType = "donation"
	PostTypeRequest  PostType = "request"
)

func (t PostType) Valid() bool {
	return t == PostTypeDonation || t == PostTypeRequest
}

type Post struct {
	ID            string           `json:"id" gorm:"primaryKey;size:191"`
	Type          PostType         `json:"type" gorm:"not null;size:20;index"`
	Title         string           `json:"title" gorm:"not null;size:255"`
	Description   string           `json:"description" gorm:"type:text;not null"`
	Quantity      string           `json:"quantity" gorm:"not null;size:255"`
	Location      Location         `json:"location" gorm:"type:json"`
	Latitude      *float64         `json:"latitude,omitempty"`
	Longitude     *float64         `json:"longitude,omitempty"`
	ExpiryDate    time.Time        `json:"expiry_date" gorm:"not null;index"`
	OwnerID       string           `json:"owner_id" gorm:"not null;size:191;index"`
	OwnerName     string           `json:"owner_name" gorm:"not null;size:255"`
	Status        lifecycle.Status `json:"status" gorm:"not null;size:20;index"`
	ClaimedBy     *string          `json:"claimed_by,omitempty" gorm:"size:191;index"`
	ClaimedByName *string          `json:"claimed_by_name,omitempty" gorm:"size:255"`
	ClaimedAt     *time.Time       `json:"claimed_at,omitempty"`
	PickedUpAt    *time.Time       `json:"picked_up_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// State extracts the lifecycle snapshot of the post
func (p *Post) State() lifecycle.State {
	s := lifecycle.State{
		Status:      p.Status,
		OwnerID:     p.OwnerID,
		OwnerName:   p.OwnerName,
		ClaimedAt:   p.ClaimedAt,
		PickedUpAt:  p.PickedUpAt,
		CompletedAt: p.CompletedAt,
	}
	if p.ClaimedBy != nil {
		s.ClaimedBy = *p.ClaimedBy
	}
	if p.ClaimedByName != nil {
		s.ClaimedByName = *p.ClaimedByName
	}
	return s
}

// ApplyChange copies a persisted transition onto the in-memory post
func (p *Post) ApplyChange(c lifecycle.Change, at time.Time) {
	s := c.Apply(p.State())
	p.Status = s.Status
	p.ClaimedBy = optional(s.ClaimedBy)
	p.ClaimedByName = optional(s.ClaimedByName)
	p.ClaimedAt = s.ClaimedAt
	p.PickedUpAt = s.PickedUpAt
	p.CompletedAt = s.CompletedAt
	p.UpdatedAt = at
}

// CreatePostRequest represents the request payload for creating a post.
// ExpiryDate accepts RFC 3339 or a plain date.
type CreatePostRequest struct {
	Type        PostType `json:"type" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Quantity    string   `json:"quantity" binding:"required"`
	Location    Location `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ExpiryDate  string   `json:"expiry_date" binding:"required"`
}

// HasCoordinates reports whether the post can be placed on a map
func (p *Post) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

func (p *Post) IsDonation() bool {
	return p.Type == PostTypeDonation
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// PostView is a post decorated with the display fields a client needs for
// the viewing user.
type PostView struct {
	Post
	LocationText     string                   `json:"location_text"`
	StatusLabel      string                   `json:"status_label"`
	DaysUntilExpiry  int                      `json:"days_until_expiry"`
	ExpiringSoon     bool                     `json:"expiring_soon"`
	CreatedAgo       string                   `json:"created_ago"`
	ActionLabel      string                   `json:"action_label"`
	AvailableActions []lifecycle.Action       `json:"available_actions"`
	Timeline         []lifecycle.TimelineStep `json:"timeline,omitempty"`
	InteractionCount *int64                   `json:"interaction_count,omitempty"`
}

// MapPin is a post with coordinates, as placed on the map view
type MapPin struct {
	ID           string           `json:"id"`
	Type         PostType         `json:"type"`
	Title        string           `json:"title"`
	Status       lifecycle.Status `json:"status"`
	Latitude     float64          `json:"latitude"`
	Longitude    float64          `json:"longitude"`
	ExpiringSoon bool             `json:"expiring_soon"`
	DistanceKm   *float64         `json:"distance_km,omitempty"`
}

// PostStats counts posts per lifecycle status
type PostStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Claimed   int `json:"claimed"`
	PickedUp  int `json:"picked_up"`
	Completed int `json:"completed"`
}
