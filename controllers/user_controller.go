package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/dto"
	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

// UserController serves public profiles and self updates.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GetUser returns a public profile by id.
func (u *UserController) GetUser(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	user, err := u.users.GetByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewUserResponse(user))
}

// UpdateMe applies the non-blank fields to the caller's account.
func (u *UserController) UpdateMe(ctx *gin.Context) {
	current, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req dto.UpdateUserRequest
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := req.Validate().Err(); err != nil {
		utils.Fail(ctx, err)
		return
	}

	user, token, err := u.users.Update(ctx.Request.Context(), current, services.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.UpdateUserResponse{User: dto.NewUserResponse(user), Token: token})
}
