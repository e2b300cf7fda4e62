package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/dto"
	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

// PostController creates posts and serves the subscription feed.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req dto.PostRequest
	if err := bindJSON(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := req.Validate().Err(); err != nil {
		utils.Fail(ctx, err)
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), user.ID, req.Title, req.Content, uint(req.SubjectID))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, dto.NewPostResponse(post))
}

func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewPostResponse(post))
}

// Feed lists posts from the caller's subscribed subjects; ?order=asc|desc.
func (p *PostController) Feed(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	posts, err := p.posts.Feed(ctx.Request.Context(), user.ID, ctx.Query("order"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewPostResponses(posts))
}
