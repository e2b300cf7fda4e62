package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mddforum/mdd-api/models"
)

// PostRepository stores posts and builds subscription feeds.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts post and reloads it with author and subject.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Subject").Create(post).Error; err != nil {
		return translate(err)
	}
	loaded, err := r.FindByID(ctx, post.ID)
	if err != nil {
		return err
	}
	*post = *loaded
	return nil
}

// FindByID returns the post with author and subject preloaded.
func (r *PostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").Preload("Subject").First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *PostRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FeedForUser returns posts in subjects userID subscribes to, newest first unless ascending.
func (r *PostRepository) FeedForUser(ctx context.Context, userID uint, ascending bool) ([]models.Post, error) {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}
	subjectIDs := r.db.Model(&models.Subscription{}).Select("subject_id").Where("user_id = ?", userID)

	posts := []models.Post{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Subject").
		Where("subject_id IN (?)", subjectIDs).
		Order("created_at " + direction).
		Order("id " + direction).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}
