// File: /repositories/post_repository.go
package repositories

import (
	"context"
	"foodshare-api/lifecycle"
	"foodshare-api/models"
	"gorm.io/gorm"
	"strings"
	"time"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// List returns posts matching the filter, newest first
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.WithCoordinates {
		query = query.Where("latitude IS NOT NULL AND longitude IS NOT NULL")
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ApplyChange writes a lifecycle transition only if the post still has the
// status the change was computed from.
func (r *PostRepository) ApplyChange(ctx context.Context, id string, change lifecycle.Change, at time.Time) error {
	updates := map[string]interface{}{
		"status":     change.To,
		"updated_at": at,
	}
	if change.ReleaseClaim {
		updates["claimed_by"] = nil
		updates["claimed_by_name"] = nil
		updates["claimed_at"] = nil
	}
	if change.ClaimedBy != "" {
		updates["claimed_by"] = change.ClaimedBy
		updates["claimed_by_name"] = change.ClaimedByName
		updates["claimed_at"] = change.ClaimedAt
	}
	if change.PickedUpAt != nil {
		updates["picked_up_at"] = change.PickedUpAt
	}
	if change.CompletedAt != nil {
		updates["completed_at"] = change.CompletedAt
	}

	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND status = ?", id, change.From).
		Updates(updates)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// Delete removes the owner's post and its interactions unless it has been
// completed in the meantime.
func (r *PostRepository) Delete(ctx context.Context, id, ownerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? AND owner_id = ? AND status <> ?", id, ownerID, lifecycle.StatusCompleted).
			Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}
		return nil
	})
}

// DeleteExpired removes unclaimed posts whose expiry is before the cutoff
func (r *PostRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Post{}).
			Where("status = ? AND expiry_date < ?", lifecycle.StatusPosted, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("post_id IN ?", ids).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ? AND status = ?", ids, lifecycle.StatusPosted).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

type statusCount struct {
	Status lifecycle.Status
	Count  int64
}

func (r *PostRepository) CountByStatus(ctx context.Context) (map[lifecycle.Status]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[lifecycle.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *PostRepository) CountByOwnerAndType(ctx context.Context, ownerID string, postType models.PostType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("owner_id = ? AND type = ?", ownerID, postType).
		Count(&count).Error
	return count, err
}
