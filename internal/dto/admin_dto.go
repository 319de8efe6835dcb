package dto

import "time"

// CreateQuizRequest creates an empty quiz; questions are attached via CSV
// import.
type CreateQuizRequest struct {
	Name                 string     `json:"name" binding:"required"`
	Description          string     `json:"description"`
	TimeLimitPerQuestion int        `json:"time_limit_per_question" binding:"omitempty,min=1"`
	Mode                 string     `json:"mode" binding:"omitempty,oneof=on_demand scheduled"`
	StartTime            *time.Time `json:"start_time"`
	IsActive             bool       `json:"is_active"`
	AllowRetakes         bool       `json:"allow_retakes"`
}

// QuestionAdminDTO is the full catalog entry including the solution.
// Admin-only; the player-facing views never expose the correct answer.
type QuestionAdminDTO struct {
	ID            uint   `json:"id"`
	Text          string `json:"text"`
	CorrectAnswer string `json:"correct_answer"`
	WrongAnswer1  string `json:"wrong_answer1"`
	WrongAnswer2  string `json:"wrong_answer2"`
	WrongAnswer3  string `json:"wrong_answer3"`
	Topic         string `json:"topic,omitempty"`
	Difficulty    int    `json:"difficulty"`
	SourceURL     string `json:"source_url,omitempty"`
}

// ImportReportDTO summarizes a CSV quiz import.
type ImportReportDTO struct {
	QuizID           uint   `json:"quiz_id"`
	QuizName         string `json:"quiz_name"`
	QuestionsLinked  int    `json:"questions_linked"`
	QuestionsCreated int    `json:"questions_created"`
	RowsSkipped      int    `json:"rows_skipped"`
}
