package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/middleware"
	"github.com/mddforum/mdd-api/models"
)

// bindJSON decodes the body into req. Malformed JSON is a validation error on the body.
func bindJSON(ctx *gin.Context, req interface{}) error {
	if err := ctx.ShouldBindJSON(req); err != nil {
		return apperror.Validation("body", "Malformed JSON request")
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation(name, fmt.Sprintf("%s must be a positive integer", name))
	}
	return uint(id), nil
}

func currentUser(ctx *gin.Context) (*models.User, error) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return nil, apperror.Unauthorized("Authentication is required")
	}
	return user, nil
}
