package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mddforum/mdd-api/apperror"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Status    int               `json:"status"`
	Timestamp string            `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Respond writes v as JSON with the given status code.
func Respond(ctx *gin.Context, status int, v interface{}) {
	ctx.JSON(status, v)
}

// Success writes v with 200 OK.
func Success(ctx *gin.Context, v interface{}) {
	Respond(ctx, 200, v)
}

// Created writes v with 201 Created.
func Created(ctx *gin.Context, v interface{}) {
	Respond(ctx, 201, v)
}

// NoContent answers 204 without a body.
func NoContent(ctx *gin.Context) {
	ctx.Status(204)
}

// Fail renders err as the error envelope. Internal causes are logged, never sent.
func Fail(ctx *gin.Context, err error) {
	appErr := apperror.From(err)
	status := appErr.Kind.HTTPStatus()

	if appErr.Kind == apperror.KindInternal {
		Logger.Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("request_id", ctx.GetString(ContextRequestIDKey)),
			zap.Error(appErr.Err),
		)
	} else {
		Logger.Debug("request rejected",
			zap.String("path", ctx.Request.URL.Path),
			zap.String("kind", appErr.Kind.String()),
			zap.String("code", appErr.Code),
		)
	}

	body := ErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if appErr.Kind == apperror.KindValidation && len(appErr.Fields) > 0 {
		body.Errors = appErr.Fields
	}
	ctx.JSON(status, body)
}

// Abort renders err and stops the handler chain.
func Abort(ctx *gin.Context, err error) {
	Fail(ctx, err)
	ctx.Abort()
}
