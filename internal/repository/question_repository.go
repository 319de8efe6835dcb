package repository

import (
	"errors"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByText(text string) (*model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("question with this text already exists")
		}
		return err
	}
	return nil
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByText(text string) (*model.Question, error) {
	var question model.Question
	if err := r.db.Where("text = ?", text).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, err
	}
	return &question, nil
}
