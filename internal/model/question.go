package model

import "time"

// Question is an immutable catalog entry. The text is the dedup key for CSV
// imports, so it must stay globally unique. Questions are owned by the
// catalog, never by a single quiz: deleting a quiz removes its QuizQuestion
// links but leaves the questions untouched.
type Question struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Text          string    `json:"text" gorm:"type:text;not null;uniqueIndex"`
	CorrectAnswer string    `json:"-" gorm:"type:text;not null"`
	WrongAnswer1  string    `json:"-" gorm:"type:text;not null"`
	WrongAnswer2  string    `json:"-" gorm:"type:text;not null"`
	WrongAnswer3  string    `json:"-" gorm:"type:text;not null"`
	Topic         string    `json:"topic" gorm:"size:255"`
	Difficulty    int       `json:"difficulty" gorm:"not null;default:3"`
	SourceURL     string    `json:"source_url" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AllAnswers returns the four candidate answer texts in stored order.
// Shuffling for presentation happens in the service layer.
func (q *Question) AllAnswers() []string {
	return []string{q.CorrectAnswer, q.WrongAnswer1, q.WrongAnswer2, q.WrongAnswer3}
}
