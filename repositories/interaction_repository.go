package repositories

import (
	"context"
	"foodshare-api/models"
	"gorm.io/gorm"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *models.Interaction) error {
	return translate(r.db.WithContext(ctx).Create(interaction).Error)
}

func (r *InteractionRepository) FindByID(ctx context.Context, id string) (*models.Interaction, error) {
	var interaction models.Interaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&interaction).Error; err != nil {
		return nil, translate(err)
	}
	return &interaction, nil
}

// List returns interactions for a post or a user, newest first
func (r *InteractionRepository) List(ctx context.Context, filter InteractionFilter) ([]models.Interaction, error) {
	query := r.db.WithContext(ctx).Model(&models.Interaction{})
	if filter.PostID != "" {
		query = query.Where("post_id = ?", filter.PostID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var interactions []models.Interaction
	if err := query.Order("created_at DESC").Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

func (r *InteractionRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Interaction{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// MirrorStatus moves the user's open interaction on a post to status.
// Rejected and completed interactions are closed and left alone.
func (r *InteractionRepository) MirrorStatus(ctx context.Context, postID, userID string, status models.InteractionStatus) error {
	return r.db.WithContext(ctx).Model(&models.Interaction{}).
		Where("post_id = ? AND user_id = ? AND status IN ?", postID, userID,
			[]models.InteractionStatus{models.InteractionPending, models.InteractionApproved}).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": r.db.NowFunc(),
		}).Error
}

func (r *InteractionRepository) UpdateMessage(ctx context.Context, id, message string) error {
	result := r.db.WithContext(ctx).Model(&models.Interaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"message":    message,
			"updated_at": r.db.NowFunc(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
