package model

import "time"

// GameSession is one server-authoritative play-through. The row itself is
// the suspension point between a client's successive HTTP calls: pointer,
// score and the answer log all live here. CurrentIndex is the zero-based
// pointer to the next question to serve; once it reaches the quiz's
// question count the session turns inactive and stays that way.
type GameSession struct {
	SessionID      string    `gorm:"primarykey;size:255" json:"session_id"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	QuizID         uint      `json:"quiz_id" gorm:"not null;index"`
	Quiz           Quiz      `json:"-" gorm:"foreignKey:QuizID"`
	Score          int       `json:"score" gorm:"not null;default:0"`
	CurrentIndex   int       `json:"current_index" gorm:"not null;default:0"`
	LastQuestionAt int64     `json:"last_question_at" gorm:"not null"` // unix seconds
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
	AnswerLog      AnswerLog `json:"answer_log" gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
