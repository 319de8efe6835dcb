package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService service.QuizService
}

func NewQuizController(qs service.QuizService) *QuizController {
	return &QuizController{quizService: qs}
}

// ListQuizzes godoc
// @Summary List playable quizzes
// @Description Returns all active quizzes with their question counts. Scheduled quizzes appear here even before their start time.
// @Tags Game
// @Produce json
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /game/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.quizService.ListActiveQuizzes()
	if err != nil {
		log.Error().Err(err).Msg("ListQuizzes failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}
