package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mddforum/mdd-api/services"
	"github.com/mddforum/mdd-api/utils"
)

// StatsController provides forum statistics.
type StatsController struct {
	stats *services.StatsService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{stats: stats}
}

// GetStats returns aggregate row counts for the forum.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats, err := s.stats.Stats(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, stats)
}

// Health answers liveness probes.
func (s *StatsController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
