package repository

import (
	"errors"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
	"gorm.io/gorm"
)

// LeaderboardRow is one aggregated leaderboard entry.
type LeaderboardRow struct {
	UserID        uint
	Name          string
	AvatarURL     string
	QuizzesPlayed int
	AveragePct    float64
}

type ResultRepository interface {
	Create(result *model.GameResult) error
	FindByUserAndQuiz(userID, quizID uint) (*model.GameResult, error)
	// DeleteByUserAndQuiz removes prior results and reports how many rows
	// went away, so callers can flag integrity anomalies.
	DeleteByUserAndQuiz(userID, quizID uint) (int64, error)
	// ScoresByQuiz snapshots all existing scores for a quiz.
	ScoresByQuiz(quizID uint) ([]int, error)
	FindAllByUser(userID uint) ([]model.GameResult, error)
	CountByUser(userID uint) (int64, error)
	CountScheduledByUser(userID uint) (int64, error)
	GlobalLeaderboard(topN int) ([]LeaderboardRow, error)

	// Transaction runs fn against a repository bound to one database
	// transaction; any error rolls the whole thing back.
	Transaction(fn func(ResultRepository) error) error
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Transaction(fn func(ResultRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&resultRepository{db: tx})
	})
}

func (r *resultRepository) Create(result *model.GameResult) error {
	if err := r.db.Create(result).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("result already exists for this user and quiz")
		}
		return err
	}
	return nil
}

func (r *resultRepository) FindByUserAndQuiz(userID, quizID uint) (*model.GameResult, error) {
	var result model.GameResult
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("result not found")
		}
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) DeleteByUserAndQuiz(userID, quizID uint) (int64, error) {
	res := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(&model.GameResult{})
	return res.RowsAffected, res.Error
}

func (r *resultRepository) ScoresByQuiz(quizID uint) ([]int, error) {
	var scores []int
	err := r.db.Model(&model.GameResult{}).
		Where("quiz_id = ?", quizID).
		Pluck("score", &scores).Error
	return scores, err
}

func (r *resultRepository) FindAllByUser(userID uint) ([]model.GameResult, error) {
	var results []model.GameResult
	err := r.db.Preload("Quiz").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}

func (r *resultRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.GameResult{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *resultRepository) CountScheduledByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.GameResult{}).
		Joins("JOIN quizzes ON quizzes.id = game_results.quiz_id").
		Where("game_results.user_id = ? AND quizzes.mode = ?", userID, model.QuizModeScheduled).
		Count(&count).Error
	return count, err
}

func (r *resultRepository) GlobalLeaderboard(topN int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.db.Model(&model.GameResult{}).
		Select(`game_results.user_id,
			users.name,
			users.avatar_url,
			COUNT(*) as quizzes_played,
			AVG(game_results.score * 100.0 / game_results.total_questions) as average_pct`).
		Joins("JOIN users ON users.id = game_results.user_id").
		Where("game_results.total_questions > 0").
		Group("game_results.user_id, users.name, users.avatar_url").
		Order("average_pct DESC").
		Limit(topN).
		Scan(&rows).Error
	return rows, err
}
