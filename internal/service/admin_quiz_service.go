package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/model"
	"github.com/kvizarena/api/internal/repository"
	"github.com/rs/zerolog/log"
)

// questionImportRow is one validated CSV row. Topic, difficulty and source
// URL are optional; the question text and all four answers are not.
type questionImportRow struct {
	Text          string `validate:"required"`
	CorrectAnswer string `validate:"required"`
	WrongAnswer1  string `validate:"required"`
	WrongAnswer2  string `validate:"required"`
	WrongAnswer3  string `validate:"required"`
	Topic         string
	Difficulty    int `validate:"min=0,max=10"`
	SourceURL     string
}

var importColumns = []string{"question", "correct_answer", "wrong_answer1", "wrong_answer2", "wrong_answer3"}

// AdminQuizService manages the quiz catalog: creation, deletion with
// link-only cascade, and CSV import.
type AdminQuizService interface {
	CreateQuiz(req dto.CreateQuizRequest) (*model.Quiz, error)
	DeleteQuiz(id uint) error
	ImportQuizCSV(req dto.CreateQuizRequest, csvData io.Reader) (*dto.ImportReportDTO, error)
	GetQuestion(id uint) (*dto.QuestionAdminDTO, error)
}

type adminQuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	validate     *validator.Validate
}

func NewAdminQuizService(quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository) AdminQuizService {
	return &adminQuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		validate:     validator.New(),
	}
}

// GetQuestion exposes the full catalog entry, solution included, for
// admin inspection.
func (s *adminQuizService) GetQuestion(id uint) (*dto.QuestionAdminDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionAdminDTO{
		ID:            question.ID,
		Text:          question.Text,
		CorrectAnswer: question.CorrectAnswer,
		WrongAnswer1:  question.WrongAnswer1,
		WrongAnswer2:  question.WrongAnswer2,
		WrongAnswer3:  question.WrongAnswer3,
		Topic:         question.Topic,
		Difficulty:    question.Difficulty,
		SourceURL:     question.SourceURL,
	}, nil
}

func (s *adminQuizService) buildQuiz(req dto.CreateQuizRequest) (*model.Quiz, error) {
	mode := req.Mode
	if mode == "" {
		mode = model.QuizModeOnDemand
	}
	if mode == model.QuizModeScheduled && req.StartTime == nil {
		return nil, apperr.Invalid("A scheduled quiz requires a start time")
	}
	timeLimit := req.TimeLimitPerQuestion
	if timeLimit <= 0 {
		timeLimit = model.DefaultQuestionTimeLimit
	}
	return &model.Quiz{
		Name:                 strings.TrimSpace(req.Name),
		Description:          strings.TrimSpace(req.Description),
		TimeLimitPerQuestion: timeLimit,
		IsActive:             req.IsActive,
		Mode:                 mode,
		StartTime:            req.StartTime,
		AllowRetakes:         req.AllowRetakes,
	}, nil
}

func (s *adminQuizService) CreateQuiz(req dto.CreateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.buildQuiz(req)
	if err != nil {
		return nil, err
	}
	if quiz.Name == "" {
		return nil, apperr.Invalid("Quiz name cannot be empty")
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}
	log.Info().Uint("quizID", quiz.ID).Str("name", quiz.Name).Msg("Quiz created")
	return quiz, nil
}

func (s *adminQuizService) DeleteQuiz(id uint) error {
	if err := s.quizRepo.Delete(id); err != nil {
		return err
	}
	log.Info().Uint("quizID", id).Msg("Quiz deleted (question links cascaded, questions preserved)")
	return nil
}

func (s *adminQuizService) ImportQuizCSV(req dto.CreateQuizRequest, csvData io.Reader) (*dto.ImportReportDTO, error) {
	quiz, err := s.buildQuiz(req)
	if err != nil {
		return nil, err
	}
	if quiz.Name == "" {
		return nil, apperr.Invalid("Quiz name cannot be empty")
	}

	rows, skipped, err := s.parseQuestionCSV(csvData)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.Invalid("CSV file contains no valid question rows")
	}

	report := &dto.ImportReportDTO{QuizName: quiz.Name, RowsSkipped: skipped}

	err = s.quizRepo.Transaction(func(quizzes repository.QuizRepository, questions repository.QuestionRepository) error {
		if txErr := quizzes.Create(quiz); txErr != nil {
			if apperr.KindOf(txErr) == apperr.KindConflict {
				return apperr.Conflict(fmt.Sprintf("A quiz named %q already exists", quiz.Name))
			}
			return txErr
		}

		seen := make(map[uint]bool)
		position := 0
		for _, row := range rows {
			question, created, findErr := findOrCreateQuestion(questions, row)
			if findErr != nil {
				return findErr
			}
			if created {
				report.QuestionsCreated++
			}
			if seen[question.ID] {
				// Same question twice in one CSV; the link table would
				// reject it anyway.
				report.RowsSkipped++
				continue
			}
			seen[question.ID] = true

			position++
			link := &model.QuizQuestion{
				QuizID:     quiz.ID,
				QuestionID: question.ID,
				Position:   position,
			}
			if linkErr := quizzes.LinkQuestion(link); linkErr != nil {
				return linkErr
			}
			report.QuestionsLinked++
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("name", quiz.Name).Msg("CSV import failed, transaction rolled back")
		return nil, err
	}

	report.QuizID = quiz.ID
	log.Info().Uint("quizID", quiz.ID).Int("linked", report.QuestionsLinked).Int("created", report.QuestionsCreated).Int("skipped", report.RowsSkipped).Msg("Quiz imported from CSV")
	return report, nil
}

// findOrCreateQuestion dedups on the globally unique question text.
func findOrCreateQuestion(questions repository.QuestionRepository, row questionImportRow) (*model.Question, bool, error) {
	existing, err := questions.FindByText(row.Text)
	if err == nil {
		return existing, false, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, false, err
	}

	difficulty := row.Difficulty
	if difficulty == 0 {
		difficulty = 3
	}
	question := &model.Question{
		Text:          row.Text,
		CorrectAnswer: row.CorrectAnswer,
		WrongAnswer1:  row.WrongAnswer1,
		WrongAnswer2:  row.WrongAnswer2,
		WrongAnswer3:  row.WrongAnswer3,
		Topic:         row.Topic,
		Difficulty:    difficulty,
		SourceURL:     row.SourceURL,
	}
	if err := questions.Create(question); err != nil {
		return nil, false, err
	}
	return question, true, nil
}

func (s *adminQuizService) parseQuestionCSV(r io.Reader) ([]questionImportRow, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, apperr.Invalid("CSV file is empty or unreadable")
	}
	// Excel exports prepend a UTF-8 BOM.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range importColumns {
		if _, ok := columns[required]; !ok {
			return nil, 0, apperr.Invalid(fmt.Sprintf("CSV is missing required column %q", required))
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []questionImportRow
	skipped := 0
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Warn().Err(readErr).Msg("CSV import: skipping malformed row")
			skipped++
			continue
		}

		difficulty := 0
		if raw := field(record, "difficulty"); raw != "" {
			parsed, parseErr := strconv.Atoi(raw)
			if parseErr == nil {
				difficulty = parsed
			}
		}

		row := questionImportRow{
			Text:          field(record, "question"),
			CorrectAnswer: field(record, "correct_answer"),
			WrongAnswer1:  field(record, "wrong_answer1"),
			WrongAnswer2:  field(record, "wrong_answer2"),
			WrongAnswer3:  field(record, "wrong_answer3"),
			Topic:         field(record, "topic"),
			Difficulty:    difficulty,
			SourceURL:     field(record, "source_url"),
		}
		if validErr := s.validate.Struct(row); validErr != nil {
			log.Warn().Err(validErr).Str("question", row.Text).Msg("CSV import: skipping invalid row")
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
