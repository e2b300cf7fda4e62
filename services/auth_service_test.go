package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/models"
)

func TestRegisterThenLoginResolvesSameUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := f.auth(nil)

	tok, err := auth.Register(ctx, "a@x.com", "A", strongPassword, "10.0.0.1")
	require.NoError(t, err)

	u, err := auth.ResolveCurrentUser(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEqual(t, strongPassword, u.PasswordHash)

	tok, err = auth.Login(ctx, "a@x.com", strongPassword)
	require.NoError(t, err)
	again, err := auth.ResolveCurrentUser(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := f.auth(nil)
	_, err := auth.Register(ctx, "a@x.com", "alice", strongPassword, "")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "a@x.com", "Wrong1!pass")
	assertKind(t, err, apperror.KindUnauthorized, apperror.CodeInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@x.com", strongPassword)
	assertKind(t, err, apperror.KindUnauthorized, apperror.CodeInvalidCredentials)

	// OAuth-only accounts have no password to check.
	require.NoError(t, f.users.Create(ctx, &models.User{Email: "gh@x.com", Username: "octo", Provider: "github", ProviderID: "1"}))
	_, err = auth.Login(ctx, "gh@x.com", "")
	assertKind(t, err, apperror.KindUnauthorized, apperror.CodeInvalidCredentials)
}

func TestRegisterDuplicateNeverCreatesSecondRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := f.auth(nil)

	_, err := auth.Register(ctx, "a@x.com", "alice", strongPassword, "")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "a@x.com", "someone", strongPassword, "")
	assertKind(t, err, apperror.KindConflict, apperror.CodeUserAlreadyExists)
	_, err = auth.Register(ctx, "b@x.com", "alice", strongPassword, "")
	assertKind(t, err, apperror.KindConflict, apperror.CodeUserAlreadyExists)

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// racyUsers skips the pre-insert checks so the unique index is the only guard.
type racyUsers struct {
	UserStore
}

func (racyUsers) EmailTaken(context.Context, string, uint) (bool, error)    { return false, nil }
func (racyUsers) UsernameTaken(context.Context, string, uint) (bool, error) { return false, nil }

func TestRegisterRaceMapsUniqueViolationToConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := NewAuthService(racyUsers{f.users}, f.tokens, nil)

	_, err := auth.Register(ctx, "a@x.com", "alice", strongPassword, "")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "a@x.com", "alice2", strongPassword, "")
	assertKind(t, err, apperror.KindConflict, apperror.CodeUserAlreadyExists)

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestResolveCurrentUserRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := f.auth(nil)

	_, err := auth.ResolveCurrentUser(ctx, "")
	assertKind(t, err, apperror.KindUnauthorized, apperror.CodeUnauthorized)

	_, err = auth.ResolveCurrentUser(ctx, "garbage")
	assertKind(t, err, apperror.KindUnauthorized, apperror.CodeUnauthorized)

	ghost, err := f.tokens.Generate("ghost@x.com")
	require.NoError(t, err)
	_, err = auth.ResolveCurrentUser(ctx, ghost)
	assertKind(t, err, apperror.KindUnauthorized, apperror.CodeUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := f.auth(nil)

	tok, err := auth.Register(ctx, "a@x.com", "alice", strongPassword, "")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(tok))

	_, err = auth.ResolveCurrentUser(ctx, tok)
	assertKind(t, err, apperror.KindUnauthorized, apperror.CodeUnauthorized)

	// A fresh login still works.
	tok, err = auth.Login(ctx, "a@x.com", strongPassword)
	require.NoError(t, err)
	_, err = auth.ResolveCurrentUser(ctx, tok)
	assert.NoError(t, err)

	assertKind(t, auth.Logout("garbage"), apperror.KindUnauthorized, "")
}

type denyGuard struct {
	cooldownOK bool
	increments int
}

func (g *denyGuard) CooldownTry(string) bool     { return g.cooldownOK }
func (g *denyGuard) DailyLimitCheck(string) bool { return false }
func (g *denyGuard) DailyIncrement(string)       { g.increments++ }

func TestRegisterThrottled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	g := &denyGuard{}
	_, err := f.auth(g).Register(ctx, "a@x.com", "alice", strongPassword, "10.0.0.1")
	assertKind(t, err, apperror.KindTooManyRequests, apperror.CodeTooManyRequests)

	g.cooldownOK = true
	_, err = f.auth(g).Register(ctx, "a@x.com", "alice", strongPassword, "10.0.0.1")
	assertKind(t, err, apperror.KindTooManyRequests, apperror.CodeTooManyRequests)
	assert.Zero(t, g.increments)

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
