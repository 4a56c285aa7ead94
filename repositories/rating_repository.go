package repositories

import (
	"context"
	"foodshare-api/models"
	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a rating. A second rating by the same user for the same post
// hits the unique index and comes back as ErrDuplicate.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return translate(r.db.WithContext(ctx).Create(rating).Error)
}

func (r *RatingRepository) Exists(ctx context.Context, postID, fromUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("post_id = ? AND from_user_id = ?", postID, fromUserID).
		Count(&count).Error
	return count > 0, err
}

type ratingSummary struct {
	Average float64
	Total   int64
}

// Summary returns the average score and number of ratings a user received
func (r *RatingRepository) Summary(ctx context.Context, toUserID string) (float64, int64, error) {
	var summary ratingSummary
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("to_user_id = ?", toUserID).
		Scan(&summary).Error
	return summary.Average, summary.Total, err
}

func (r *RatingRepository) Recent(ctx context.Context, toUserID string, limit int) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ratings).Error
	return ratings, err
}
