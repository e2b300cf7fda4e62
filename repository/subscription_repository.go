package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mddforum/mdd-api/models"
)

// SubscriptionRepository manages user to subject join rows.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Exists(ctx context.Context, userID, subjectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the pair. The unique (user_id, subject_id) index turns a concurrent duplicate into ErrDuplicate.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

// Delete removes the pair and returns ErrNotFound when it did not exist.
func (r *SubscriptionRepository) Delete(ctx context.Context, userID, subjectID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).Count(&n).Error
	return n, err
}
