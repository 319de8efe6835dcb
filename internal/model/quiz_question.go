package model

// QuizQuestion links a Question into a Quiz at a fixed position. Positions
// run 1..N without gaps and drive the order questions are served in.
// The cascade runs from the quiz side only; the question row survives.
type QuizQuestion struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	QuizID     uint     `json:"quiz_id" gorm:"not null;index;uniqueIndex:uq_quiz_question,priority:1"`
	QuestionID uint     `json:"question_id" gorm:"not null;uniqueIndex:uq_quiz_question,priority:2"`
	Question   Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Position   int      `json:"position" gorm:"not null;index"`
}
