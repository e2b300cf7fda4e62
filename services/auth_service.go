package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/models"
	"github.com/mddforum/mdd-api/repository"
	"github.com/mddforum/mdd-api/utils"
)

// AuthService registers users, checks credentials and resolves bearer tokens.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	guard  RegistrationLimiter
	oauth  map[string]*OAuthProvider
}

// NewAuthService wires the auth use cases. guard may be nil to disable registration throttling.
func NewAuthService(users UserStore, tokens TokenIssuer, guard RegistrationLimiter, providers ...*OAuthProvider) *AuthService {
	s := &AuthService{users: users, tokens: tokens, guard: guard, oauth: map[string]*OAuthProvider{}}
	for _, p := range providers {
		if p != nil {
			s.oauth[p.Name] = p
		}
	}
	return s
}

// Register creates a local account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, email, username, password, clientIP string) (string, error) {
	if s.guard != nil {
		if !s.guard.CooldownTry(clientIP) {
			return "", apperror.TooManyRequests("Please wait before trying to register again")
		}
		if !s.guard.DailyLimitCheck(clientIP) {
			return "", apperror.TooManyRequests("Too many accounts created from this address today")
		}
	}

	taken, err := s.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if taken {
		return "", apperror.Conflict(apperror.CodeUserAlreadyExists, "A user with this email already exists")
	}
	taken, err = s.users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if taken {
		return "", apperror.Conflict(apperror.CodeUserAlreadyExists, "A user with this username already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return "", apperror.Internal(err)
	}
	user := &models.User{Email: email, Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperror.Conflict(apperror.CodeUserAlreadyExists, "A user with this email or username already exists")
		}
		return "", apperror.Internal(err)
	}
	if s.guard != nil {
		s.guard.DailyIncrement(clientIP)
	}
	utils.Logger.Info("user registered", zap.Uint("user_id", user.ID))

	return s.issue(user.Email)
}

// Login checks the password of a local account and returns a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.InvalidCredentials()
		}
		return "", apperror.Internal(err)
	}
	if !user.HasLocalPassword() || !utils.CheckPassword(user.PasswordHash, password) {
		return "", apperror.InvalidCredentials()
	}
	return s.issue(user.Email)
}

// ResolveCurrentUser validates token and loads the user named by its subject.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperror.Unauthorized("Authentication is required")
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	if utils.IsTokenBlacklisted(claims.ID) {
		return nil, apperror.Unauthorized("Token has been revoked")
	}
	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("User no longer exists")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Logout revokes token until it would have expired anyway.
func (s *AuthService) Logout(token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apperror.Unauthorized("Invalid or expired token")
	}
	if claims.ExpiresAt != nil {
		utils.BlacklistToken(claims.ID, claims.ExpiresAt.Time)
	}
	return nil
}

// IssueToken signs a token for email.
func (s *AuthService) IssueToken(email string) (string, error) {
	return s.issue(email)
}

func (s *AuthService) issue(email string) (string, error) {
	token, err := s.tokens.Generate(email)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}
