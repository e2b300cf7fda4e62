package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/models"
	"github.com/mddforum/mdd-api/utils"
)

const (
	// ContextUserKey stores the authenticated *models.User inside Gin context.
	ContextUserKey = "current_user"
	// ContextTokenKey stores the raw bearer token.
	ContextTokenKey = "bearer_token"
)

// UserResolver turns a bearer token into the account it belongs to.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired ensures the request carries a valid bearer token for an existing user.
func AuthRequired(resolver UserResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Abort(ctx, apperror.Unauthorized("Authorization header missing"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Abort(ctx, apperror.Unauthorized("Invalid authorization header format"))
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Abort(ctx, apperror.Unauthorized("Empty bearer token"))
			return
		}

		user, err := resolver.ResolveCurrentUser(ctx.Request.Context(), tokenString)
		if err != nil {
			utils.Abort(ctx, err)
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// BearerToken returns the token validated by AuthRequired.
func BearerToken(ctx *gin.Context) string {
	return ctx.GetString(ContextTokenKey)
}
