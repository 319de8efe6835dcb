package service

import (
	"fmt"
	"time"

	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/repository"
	"github.com/rs/zerolog/log"
)

type QuizService interface {
	ListActiveQuizzes() ([]dto.QuizSummaryDTO, error)
}

type quizService struct {
	quizRepo repository.QuizRepository
}

func NewQuizService(quizRepo repository.QuizRepository) QuizService {
	return &quizService{quizRepo: quizRepo}
}

func (s *quizService) ListActiveQuizzes() ([]dto.QuizSummaryDTO, error) {
	quizzesWithCount, err := s.quizRepo.FindAllActiveWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active quizzes from repository")
		return nil, fmt.Errorf("error fetching quizzes: %w", err)
	}

	dtos := make([]dto.QuizSummaryDTO, 0, len(quizzesWithCount))
	for _, qwc := range quizzesWithCount {
		summary := dto.QuizSummaryDTO{
			ID:            qwc.Quiz.ID,
			Name:          qwc.Quiz.Name,
			Description:   qwc.Quiz.Description,
			QuestionCount: qwc.QuestionCount,
			Mode:          qwc.Quiz.Mode,
			AllowRetakes:  qwc.Quiz.AllowRetakes,
		}
		if st := qwc.Quiz.StartTimeUTC(); st != nil {
			iso := st.Format(time.RFC3339)
			summary.StartTime = &iso
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}
