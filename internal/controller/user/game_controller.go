package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/middleware"
	"github.com/kvizarena/api/internal/service"
	"github.com/rs/zerolog/log"
)

type GameController struct {
	gameService service.GameService
}

func NewGameController(gs service.GameService) *GameController {
	return &GameController{gameService: gs}
}

// StartGame godoc
// @Summary Start a new quiz session
// @Description Creates a server-side game session for the given quiz and returns the first question. Answer options are shuffled per session.
// @Tags Game
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 201 {object} dto.StartGameResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Quiz is scheduled and not open yet, or already completed"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found or not available"
// @Router /game/start/{quiz_id} [post]
func (c *GameController) StartGame(ctx *gin.Context) {
	quizIDStr := ctx.Param("quiz_id")
	quizID, err := strconv.ParseUint(quizIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid quiz ID format"})
		return
	}

	userID := middleware.UserID(ctx)
	resp, err := c.gameService.StartGame(userID, uint(quizID))
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Uint64("quizID", quizID).Msg("StartGame rejected")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer for the current question
// @Description Evaluates the submitted answer text against the session's current question, advances the session, and returns feedback plus either the next question or the final results.
// @Tags Game
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.SubmitAnswerRequest true "Session ID and the chosen answer text"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Invalid or expired session"
// @Failure 409 {object} dto.ErrorResponse "Concurrent submission for this question"
// @Failure 500 {object} dto.ErrorResponse "Session question sequencing error"
// @Router /game/answer [post]
func (c *GameController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID := middleware.UserID(ctx)
	resp, err := c.gameService.SubmitAnswer(userID, req)
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Str("sessionID", req.SessionID).Msg("SubmitAnswer failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
