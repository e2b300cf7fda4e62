package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/dto"
	"github.com/mddforum/mdd-api/middleware"
	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

// AuthController exposes registration, login, logout and provider login.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles local account registration.
func (a *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := req.Validate().Err(); err != nil {
		utils.Fail(ctx, err)
		return
	}

	token, err := a.auth.Register(ctx.Request.Context(), req.Email, req.Username, req.Password, ctx.ClientIP())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, dto.TokenResponse{Token: token})
}

// Login exchanges credentials for a bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := req.Validate().Err(); err != nil {
		utils.Fail(ctx, err)
		return
	}

	token, err := a.auth.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.TokenResponse{Token: token})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewUserResponse(user))
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	if err := a.auth.Logout(middleware.BearerToken(ctx)); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.NoContent(ctx)
}

// OAuthRedirect generates a provider-specific authorization URL.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	url, state, err := a.auth.OAuthLoginURL(ctx.Param("provider"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.AuthorizationURLResponse{AuthorizationURL: url, State: state})
}

// OAuthCallback exchanges the authorization code for a user identity and issues a token.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	token, err := a.auth.OAuthCallback(ctx.Request.Context(), ctx.Param("provider"), ctx.Query("code"), ctx.Query("state"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.TokenResponse{Token: token})
}
