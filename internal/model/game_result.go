package model

import "time"

// GameResult is the durable outcome of one completed play-through. The
// ranking snapshot is computed against the results that existed before this
// one was inserted and embedded here, so historical queries never recompute
// against a moving target. At most one result exists per (user, quiz); with
// retakes enabled a new result replaces the prior one.
type GameResult struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex:uq_user_quiz_result,priority:1"`
	QuizID         uint      `json:"quiz_id" gorm:"not null;uniqueIndex:uq_user_quiz_result,priority:2"`
	Quiz           Quiz      `json:"-" gorm:"foreignKey:QuizID"`
	Score          int       `json:"score" gorm:"not null"`
	TotalQuestions int       `json:"total_questions" gorm:"not null"`
	AnswerLog      AnswerLog `json:"answer_log" gorm:"type:jsonb;not null;default:'[]'"`
	Percentile     float64   `json:"percentile" gorm:"not null"`
	PlayersBetter  int       `json:"players_better" gorm:"not null"`
	PlayersWorse   int       `json:"players_worse" gorm:"not null"`
	PlayersSame    int       `json:"players_same" gorm:"not null"`
	TotalPlayers   int       `json:"total_players" gorm:"not null"`
	CompletedAt    time.Time `json:"completed_at" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
