package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/dto"
	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

// SubjectController lists subjects and manages the caller's subscriptions.
type SubjectController struct {
	subjects *services.SubjectService
}

func NewSubjectController(subjects *services.SubjectService) *SubjectController {
	return &SubjectController{subjects: subjects}
}

func (s *SubjectController) List(ctx *gin.Context) {
	subjects, err := s.subjects.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewSubjectResponses(subjects))
}

// SubscriptionStatus lists every subject flagged with the caller's subscription state.
func (s *SubjectController) SubscriptionStatus(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	rows, err := s.subjects.ListWithStatus(ctx.Request.Context(), user.ID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewSubjectStatusResponses(rows))
}

func (s *SubjectController) Subscribed(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	subjects, err := s.subjects.ListSubscribed(ctx.Request.Context(), user.ID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, dto.NewSubjectResponses(subjects))
}

func (s *SubjectController) Subscribe(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := pathID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	subject, err := s.subjects.Subscribe(ctx.Request.Context(), user.ID, id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, dto.NewSubjectWithSubscription(*subject, true))
}

func (s *SubjectController) Unsubscribe(ctx *gin.Context) {
	user, err := currentUser(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := pathID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if err := s.subjects.Unsubscribe(ctx.Request.Context(), user.ID, id); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.NoContent(ctx)
}
