package dto

// QuizSummaryDTO is one entry in the public quiz listing. StartTime is
// ISO-8601 UTC, null for on-demand quizzes.
type QuizSummaryDTO struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	QuestionCount int     `json:"question_count"`
	Mode          string  `json:"mode"`
	StartTime     *string `json:"start_time"`
	AllowRetakes  bool    `json:"allow_retakes"`
}
