package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mddforum/mdd-api/models"
)

// CommentRepository stores replies to posts.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts comment and reloads it with its author.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error; err != nil {
		return translate(err)
	}
	var loaded models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&loaded, comment.ID).Error; err != nil {
		return translate(err)
	}
	*comment = loaded
	return nil
}

// ListByPost returns the comments of postID oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&n).Error
	return n, err
}
