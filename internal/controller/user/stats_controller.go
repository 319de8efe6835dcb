package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/middleware"
	"github.com/kvizarena/api/internal/service"
	"github.com/rs/zerolog/log"
)

type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(ss service.StatsService) *StatsController {
	return &StatsController{statsService: ss}
}

// MyStats godoc
// @Summary Get the caller's statistics
// @Description Returns quiz history, per-topic accuracy aggregated from answer logs, and earned achievements for the authenticated user.
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MyStatsDTO
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /user/my-stats [get]
func (c *StatsController) MyStats(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	stats, err := c.statsService.MyStats(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("MyStats failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// GlobalLeaderboard godoc
// @Summary Get the global leaderboard
// @Description Returns the top players ranked by average score percentage across all their results.
// @Tags Stats
// @Produce json
// @Success 200 {array} dto.LeaderboardEntryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /leaderboard/global [get]
func (c *StatsController) GlobalLeaderboard(ctx *gin.Context) {
	entries, err := c.statsService.GlobalLeaderboard(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("GlobalLeaderboard failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
