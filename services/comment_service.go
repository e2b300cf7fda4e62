package services

import (
	"context"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/models"
	"github.com/mddforum/mdd-api/utils"
)

// CommentService lists and adds comments on posts.
type CommentService struct {
	comments CommentStore
	posts    PostStore
}

func NewCommentService(comments CommentStore, posts PostStore) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

func (s *CommentService) requirePost(ctx context.Context, postID uint) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.NotFound(apperror.CodePostNotFound, "Post not found")
	}
	return nil
}

// List returns the comments of postID oldest first.
func (s *CommentService) List(ctx context.Context, postID uint) ([]models.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return comments, nil
}

func (s *CommentService) Add(ctx context.Context, authorID, postID uint, content string) (*models.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{Content: utils.Sanitize(content), AuthorID: authorID, PostID: postID}
	if comment.Content == "" {
		return nil, apperror.Validation("content", "Comment content is required")
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperror.Internal(err)
	}
	return comment, nil
}
