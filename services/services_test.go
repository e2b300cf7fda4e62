package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/repository"
	"github.com/mddforum/mdd-api/testutil"
	"github.com/mddforum/mdd-api/utils"
)

const strongPassword = "Aa1!aaaa"

type fixture struct {
	db       *gorm.DB
	tokens   *utils.TokenManager
	users    *repository.UserRepository
	subjects *repository.SubjectRepository
	subs     *repository.SubscriptionRepository
	posts    *repository.PostRepository
	comments *repository.CommentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	utils.SetRedis(nil)
	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		tokens:   utils.NewTokenManager("test-secret", "mdd", time.Hour),
		users:    repository.NewUserRepository(db),
		subjects: repository.NewSubjectRepository(db),
		subs:     repository.NewSubscriptionRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
	}
}

func (f *fixture) auth(guard RegistrationLimiter, providers ...*OAuthProvider) *AuthService {
	return NewAuthService(f.users, f.tokens, guard, providers...)
}

func assertKind(t *testing.T, err error, kind apperror.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, kind, appErr.Kind, appErr.Error())
	if code != "" {
		assert.Equal(t, code, appErr.Code)
	}
}
