package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/models"
	"github.com/mddforum/mdd-api/utils"
)

// Feed orders.
const (
	OrderDesc = "desc"
	OrderAsc  = "asc"
)

const (
	minTitleLength   = 3
	minContentLength = 10
)

// PostService creates posts and builds the subscription feed.
type PostService struct {
	posts    PostStore
	subjects SubjectStore
}

func NewPostService(posts PostStore, subjects SubjectStore) *PostService {
	return &PostService{posts: posts, subjects: subjects}
}

// Create stores a post by authorID in subjectID. Content is sanitized.
func (s *PostService) Create(ctx context.Context, authorID uint, title, content string, subjectID uint) (*models.Post, error) {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		return nil, notFoundOr(err, apperror.CodeSubjectNotFound, "Subject not found")
	}

	post := &models.Post{
		Title:     utils.SanitizeText(title),
		Content:   utils.Sanitize(content),
		AuthorID:  authorID,
		SubjectID: subjectID,
	}
	// Length rules apply to what is stored, not to the raw input.
	errs := apperror.FieldErrors{}
	if n := utf8.RuneCountInString(post.Title); n < minTitleLength {
		errs.Add("title", "The title must be at least 3 characters")
	}
	if n := utf8.RuneCountInString(post.Content); n < minContentLength {
		errs.Add("content", "The content must be at least 10 characters")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperror.Internal(err)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperror.CodePostNotFound, "Post not found")
	}
	return post, nil
}

// Feed returns posts from subjects userID subscribes to. order is "desc" (default) or "asc".
func (s *PostService) Feed(ctx context.Context, userID uint, order string) ([]models.Post, error) {
	var ascending bool
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", OrderDesc:
	case OrderAsc:
		ascending = true
	default:
		return nil, apperror.Validation("order", "Order must be asc or desc")
	}
	posts, err := s.posts.FeedForUser(ctx, userID, ascending)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return posts, nil
}
