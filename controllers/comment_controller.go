package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/dto"
	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

// CommentController lists and adds comments under a post.
type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

func (c *CommentController) List(ctx *gin.Context) {
	postID, err := pathID(ctx, "postId")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	comments, err := c.comments.List(ctx.Request.Context(), postID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewCommentResponses(comments))
}

func (c *CommentController) Create(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	postID, err := pathID(ctx, "postId")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req dto.CommentRequest
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := req.Validate().Err(); err != nil {
		utils.Fail(ctx, err)
		return
	}

	comment, err := c.comments.Add(ctx.Request.Context(), user.ID, postID, req.Content)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, dto.NewCommentResponse(comment))
}
