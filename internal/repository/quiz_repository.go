package repository

import (
	"errors"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
	"gorm.io/gorm"
)

// QuizWithCount carries a quiz plus its link count for listings.
type QuizWithCount struct {
	model.Quiz
	QuestionCount int
}

// QuizRepository covers quizzes and their ordered question links. The links
// belong to the quiz; the questions themselves do not.
type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindByName(name string) (*model.Quiz, error)
	FindAllActiveWithQuestionCount() ([]QuizWithCount, error)
	// Delete removes the quiz and its question links only. Shared questions
	// stay in the catalog.
	Delete(id uint) error

	LinkQuestion(link *model.QuizQuestion) error
	// QuestionAt returns the link (question preloaded) at a 1-based position.
	QuestionAt(quizID uint, position int) (*model.QuizQuestion, error)
	CountQuestions(quizID uint) (int, error)

	// Transaction runs fn with quiz and question repositories bound to a
	// single transaction. Any error rolls the whole import back.
	Transaction(fn func(quizzes QuizRepository, questions QuestionRepository) error) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	if err := r.db.Create(quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("quiz with this name already exists")
		}
		return err
	}
	return nil
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByName(name string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.Where("name = ?", name).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindAllActiveWithQuestionCount() ([]QuizWithCount, error) {
	var results []QuizWithCount
	err := r.db.Model(&model.Quiz{}).
		Select("quizzes.*, (SELECT COUNT(*) FROM quiz_questions WHERE quiz_questions.quiz_id = quizzes.id) as question_count").
		Where("quizzes.is_active = ?", true).
		Order("quizzes.name ASC").
		Scan(&results).Error
	return results, err
}

func (r *quizRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Explicit link cleanup rather than relying on FK behavior: the
		// quiz owns its links, the catalog owns the questions.
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Quiz{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("quiz not found")
		}
		return nil
	})
}

func (r *quizRepository) LinkQuestion(link *model.QuizQuestion) error {
	if err := r.db.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("question is already linked to this quiz")
		}
		return err
	}
	return nil
}

func (r *quizRepository) QuestionAt(quizID uint, position int) (*model.QuizQuestion, error) {
	var link model.QuizQuestion
	err := r.db.Preload("Question").
		Where("quiz_id = ? AND position = ?", quizID, position).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no question at this position")
		}
		return nil, err
	}
	return &link, nil
}

func (r *quizRepository) CountQuestions(quizID uint) (int, error) {
	var count int64
	err := r.db.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return int(count), err
}

func (r *quizRepository) Transaction(fn func(QuizRepository, QuestionRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewQuizRepository(tx), NewQuestionRepository(tx))
	})
}
