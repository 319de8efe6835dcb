package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuizController struct {
	adminQuizService service.AdminQuizService
}

func NewAdminQuizController(aqs service.AdminQuizService) *AdminQuizController {
	return &AdminQuizController{adminQuizService: aqs}
}

// CreateQuiz godoc
// @Summary (Admin) Create an empty quiz
// @Description Creates a quiz shell. Questions are attached afterwards via CSV import.
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body dto.CreateQuizRequest true "Quiz definition"
// @Success 201 {object} model.Quiz
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Failure 409 {object} dto.ErrorResponse "Quiz name already taken"
// @Router /admin/quizzes [post]
func (c *AdminQuizController) CreateQuiz(ctx *gin.Context) {
	var req dto.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	quiz, err := c.adminQuizService.CreateQuiz(req)
	if err != nil {
		log.Warn().Err(err).Str("name", req.Name).Msg("Admin CreateQuiz failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	log.Info().Uint("quizID", quiz.ID).Str("name", quiz.Name).Msg("Quiz created")
	ctx.JSON(http.StatusCreated, quiz)
}

// DeleteQuiz godoc
// @Summary (Admin) Delete a quiz
// @Description Removes the quiz and its question links. Questions themselves stay in the shared catalog.
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 204 "Quiz deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID format"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /admin/quizzes/{quiz_id} [delete]
func (c *AdminQuizController) DeleteQuiz(ctx *gin.Context) {
	quizIDStr := ctx.Param("quiz_id")
	quizID, err := strconv.ParseUint(quizIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid quiz ID format"})
		return
	}

	if err := c.adminQuizService.DeleteQuiz(uint(quizID)); err != nil {
		log.Warn().Err(err).Uint64("quizID", quizID).Msg("Admin DeleteQuiz failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	log.Info().Uint64("quizID", quizID).Msg("Quiz deleted")
	ctx.Status(http.StatusNoContent)
}

// GetQuestion godoc
// @Summary (Admin) Inspect a catalog question
// @Description Returns the full question including the correct answer. Player-facing endpoints never expose the solution.
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid question ID format"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [get]
func (c *AdminQuizController) GetQuestion(ctx *gin.Context) {
	questionIDStr := ctx.Param("question_id")
	questionID, err := strconv.ParseUint(questionIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question ID format"})
		return
	}

	question, err := c.adminQuizService.GetQuestion(uint(questionID))
	if err != nil {
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// ImportQuiz godoc
// @Summary (Admin) Import a quiz from CSV
// @Description Creates a quiz and fills it from an uploaded CSV file. The "quiz" form field holds the quiz definition as JSON, the "file" field the CSV. Questions are deduplicated by text against the shared catalog.
// @Tags Admin - Quizzes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param quiz formData string true "Quiz definition as JSON (dto.CreateQuizRequest)"
// @Param file formData file true "CSV file with columns question, correct_answer, wrong_answer1, wrong_answer2, wrong_answer3"
// @Success 201 {object} dto.ImportReportDTO
// @Failure 400 {object} dto.ErrorResponse "Missing file, bad quiz JSON, or malformed CSV"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Failure 409 {object} dto.ErrorResponse "Quiz name already taken"
// @Router /admin/quizzes/import [post]
func (c *AdminQuizController) ImportQuiz(ctx *gin.Context) {
	var req dto.CreateQuizRequest
	quizJSON := ctx.PostForm("quiz")
	if quizJSON == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing 'quiz' form field"})
		return
	}
	if err := json.Unmarshal([]byte(quizJSON), &req); err != nil || req.Name == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid quiz definition"})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing CSV file upload"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Could not read uploaded file"})
		return
	}
	defer file.Close()

	report, err := c.adminQuizService.ImportQuizCSV(req, file)
	if err != nil {
		log.Warn().Err(err).Str("name", req.Name).Msg("Admin ImportQuiz failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	log.Info().Str("quizName", report.QuizName).Int("linked", report.QuestionsLinked).Int("created", report.QuestionsCreated).Int("skipped", report.RowsSkipped).Msg("Quiz imported from CSV")
	ctx.JSON(http.StatusCreated, report)
}
