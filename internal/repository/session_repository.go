package repository

import (
	"errors"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
	"gorm.io/gorm"
)

// SessionAdvance is the full state transition applied by one accepted
// answer submission.
type SessionAdvance struct {
	Score          int
	NewIndex       int
	LastQuestionAt int64
	IsActive       bool
	AnswerLog      model.AnswerLog
}

type SessionRepository interface {
	Create(session *model.GameSession) error
	// FindByID loads a session with its quiz preloaded.
	FindByID(sessionID string) (*model.GameSession, error)
	// Advance applies the transition only if the stored pointer still equals
	// expectedIndex and the session is active (compare-and-swap). A lost
	// race returns a conflict instead of double-advancing.
	Advance(sessionID string, expectedIndex int, adv SessionAdvance) error
	// Terminate force-deactivates a session regardless of pointer state.
	Terminate(sessionID string) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.GameSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindByID(sessionID string) (*model.GameSession, error) {
	var session model.GameSession
	err := r.db.Preload("Quiz").
		Where("session_id = ?", sessionID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("session not found")
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Advance(sessionID string, expectedIndex int, adv SessionAdvance) error {
	res := r.db.Model(&model.GameSession{}).
		Where("session_id = ? AND current_index = ? AND is_active = ?", sessionID, expectedIndex, true).
		Updates(map[string]interface{}{
			"score":            adv.Score,
			"current_index":    adv.NewIndex,
			"last_question_at": adv.LastQuestionAt,
			"is_active":        adv.IsActive,
			"answer_log":       adv.AnswerLog,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("session advanced concurrently")
	}
	return nil
}

func (r *sessionRepository) Terminate(sessionID string) error {
	return r.db.Model(&model.GameSession{}).
		Where("session_id = ?", sessionID).
		Update("is_active", false).Error
}
