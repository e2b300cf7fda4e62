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

// UserService reads and updates profiles.
type UserService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewUserService(users UserStore, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperror.CodeUserNotFound, "User not found")
	}
	return user, nil
}

// ProfileUpdate holds already trimmed values; empty strings leave the field unchanged.
type ProfileUpdate struct {
	Username string
	Email    string
	Password string
}

// Update applies changes to current and returns the saved user and a token bound to its email.
func (s *UserService) Update(ctx context.Context, current *models.User, in ProfileUpdate) (*models.User, string, error) {
	user, err := s.users.FindByID(ctx, current.ID)
	if err != nil {
		return nil, "", notFoundOr(err, apperror.CodeUserNotFound, "User not found")
	}

	if in.Username != "" && in.Username != user.Username {
		taken, err := s.users.UsernameTaken(ctx, in.Username, user.ID)
		if err != nil {
			return nil, "", apperror.Internal(err)
		}
		if taken {
			return nil, "", apperror.Conflict(apperror.CodeUserAlreadyExists, "Username is already taken")
		}
		user.Username = in.Username
	}
	if in.Email != "" && in.Email != user.Email {
		taken, err := s.users.EmailTaken(ctx, in.Email, user.ID)
		if err != nil {
			return nil, "", apperror.Internal(err)
		}
		if taken {
			return nil, "", apperror.Conflict(apperror.CodeUserAlreadyExists, "Email is already in use")
		}
		user.Email = in.Email
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, "", apperror.Internal(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperror.Conflict(apperror.CodeUserAlreadyExists, "Email or username is already in use")
		}
		return nil, "", apperror.Internal(err)
	}
	utils.Logger.Info("profile updated", zap.Uint("user_id", user.ID))

	token, err := s.tokens.Generate(user.Email)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return user, token, nil
}
