package service

import (
	"time"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
	"github.com/kvizarena/api/internal/repository"
	"github.com/rs/zerolog/log"
)

// ResultService persists completed play-throughs and computes their ranking
// snapshot. The snapshot is taken from the results existing before the new
// one is inserted, so a player's own result never counts against itself.
type ResultService interface {
	FinalizeSession(userID uint, quiz *model.Quiz, score, totalQuestions int, answerLog model.AnswerLog) (*model.GameResult, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
}

func NewResultService(resultRepo repository.ResultRepository) ResultService {
	return &resultService{resultRepo: resultRepo}
}

func (s *resultService) FinalizeSession(userID uint, quiz *model.Quiz, score, totalQuestions int, answerLog model.AnswerLog) (*model.GameResult, error) {
	var result *model.GameResult

	err := s.resultRepo.Transaction(func(repo repository.ResultRepository) error {
		if quiz.AllowRetakes {
			deleted, delErr := repo.DeleteByUserAndQuiz(userID, quiz.ID)
			if delErr != nil {
				return delErr
			}
			if deleted > 1 {
				// The unique index should make this impossible; log the
				// anomaly and carry on with the replacement.
				log.Warn().Uint("userID", userID).Uint("quizID", quiz.ID).Int64("deleted", deleted).Msg("FinalizeSession: multiple prior results found for retake quiz")
			}
		}

		scores, snapErr := repo.ScoresByQuiz(quiz.ID)
		if snapErr != nil {
			return snapErr
		}

		playersWorse, playersSame := 0, 0
		for _, existing := range scores {
			switch {
			case existing < score:
				playersWorse++
			case existing == score:
				playersSame++
			}
		}
		totalPlayers := len(scores) + 1
		playersBetter := len(scores) - playersWorse - playersSame

		percentile := 100.0
		if totalPlayers > 1 {
			percentile = 100.0 * float64(playersWorse) / float64(totalPlayers-1)
		}

		result = &model.GameResult{
			UserID:         userID,
			QuizID:         quiz.ID,
			Score:          score,
			TotalQuestions: totalQuestions,
			AnswerLog:      answerLog,
			Percentile:     percentile,
			PlayersBetter:  playersBetter,
			PlayersWorse:   playersWorse,
			PlayersSame:    playersSame,
			TotalPlayers:   totalPlayers,
			CompletedAt:    time.Now().UTC(),
		}
		return repo.Create(result)
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			// Race between two concurrent completions of a no-retake quiz.
			return nil, err
		}
		return nil, apperr.Internal("failed to persist game result", err)
	}

	log.Info().Uint("userID", userID).Uint("quizID", quiz.ID).Int("score", score).Float64("percentile", result.Percentile).Msg("Game result persisted")
	return result, nil
}
