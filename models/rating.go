// File: /models/rating.go
package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID           string    `json:"id" gorm:"primaryKey;size:191"`
	PostID       string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:idx_rating_post_rater"`
	FromUserID   string    `json:"from_user_id" gorm:"not null;size:191;uniqueIndex:idx_rating_post_rater"`
	FromUserName string    `json:"from_user_name" gorm:"not null;size:255"`
	ToUserID     string    `json:"to_user_id" gorm:"not null;size:191;index"`
	Rating       int       `json:"rating" gorm:"not null"`
	Comment      *string   `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// CreateRatingRequest represents the request payload for rating a counterpart
type CreateRatingRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// RatingPrompt tells a participant whom to rate after completion
type RatingPrompt struct {
	PostID       string `json:"post_id"`
	PostTitle    string `json:"post_title"`
	ToUserID     string `json:"to_user_id"`
	ToUserName   string `json:"to_user_name"`
	AlreadyRated bool   `json:"already_rated"`
}

// UserStats is the profile summary shown for a user
type UserStats struct {
	UserID         string   `json:"user_id"`
	FullName       string   `json:"full_name,omitempty"`
	TotalDonations int64    `json:"total_donations"`
	TotalRequests  int64    `json:"total_requests"`
	AverageRating  float64  `json:"average_rating"`
	TotalRatings   int64    `json:"total_ratings"`
	RecentRatings  []Rating `json:"recent_ratings"`
}
