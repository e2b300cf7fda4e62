// Package services implements the forum use cases on top of the repository stores.
package services

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/models"
	"github.com/mddforum/mdd-api/repository"
)

// UserStore is the subset of repository.UserRepository the services need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type SubjectStore interface {
	List(ctx context.Context) ([]models.Subject, error)
	FindByID(ctx context.Context, id uint) (*models.Subject, error)
	ListWithStatus(ctx context.Context, userID uint) ([]models.SubjectWithStatus, error)
	ListSubscribed(ctx context.Context, userID uint) ([]models.Subject, error)
	Count(ctx context.Context) (int64, error)
}

type SubscriptionStore interface {
	Exists(ctx context.Context, userID, subjectID uint) (bool, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, userID, subjectID uint) error
	Count(ctx context.Context) (int64, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	FeedForUser(ctx context.Context, userID uint, ascending bool) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Count(ctx context.Context) (int64, error)
}

// TokenIssuer signs and verifies bearer tokens; utils.TokenManager implements it.
type TokenIssuer interface {
	Generate(email string) (string, error)
	Parse(token string) (*jwt.RegisteredClaims, error)
}

// RegistrationLimiter throttles sign-ups per client IP; utils.RegistrationGuard implements it.
type RegistrationLimiter interface {
	CooldownTry(ip string) bool
	DailyLimitCheck(ip string) bool
	DailyIncrement(ip string)
}

var (
	_ UserStore         = (*repository.UserRepository)(nil)
	_ SubjectStore      = (*repository.SubjectRepository)(nil)
	_ SubscriptionStore = (*repository.SubscriptionRepository)(nil)
	_ PostStore         = (*repository.PostRepository)(nil)
	_ CommentStore      = (*repository.CommentRepository)(nil)
)

// notFoundOr maps ErrNotFound to a typed not-found error and everything else to internal.
func notFoundOr(err error, code, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(code, message)
	}
	return apperror.Internal(err)
}
