package dto

import "github.com/kvizarena/api/internal/model"

// AnswerOption carries one candidate answer. Identity is the text itself:
// the client echoes the text back and the server matches it against the
// stored correct answer.
type AnswerOption struct {
	Text string `json:"text"`
}

// QuestionView is a question as presented to the player: prompt text plus
// the four candidate answers in randomized order, never the solution.
type QuestionView struct {
	Number  int            `json:"number"`
	Text    string         `json:"text"`
	Answers []AnswerOption `json:"answers"`
}

// StartGameResponse is returned by POST /api/game/start/{quiz_id}.
type StartGameResponse struct {
	SessionID      string       `json:"session_id"`
	QuizName       string       `json:"quiz_name"`
	TimeLimit      int          `json:"time_limit"`
	TotalQuestions int          `json:"total_questions"`
	Question       QuestionView `json:"question"`
}

// SubmitAnswerRequest is the body of POST /api/game/answer. AnswerText is
// deliberately not required: an empty submission is still a (wrong) answer.
type SubmitAnswerRequest struct {
	SessionID  string `json:"session_id" binding:"required"`
	AnswerText string `json:"answer_text"`
}

// RankingSummary is the snapshot computed against the results that existed
// before this one was persisted.
type RankingSummary struct {
	Percentile    float64 `json:"percentile"`
	PlayersBetter int     `json:"players_better"`
	PlayersWorse  int     `json:"players_worse"`
	PlayersSame   int     `json:"players_same"`
	TotalPlayers  int     `json:"total_players"`
}

// SubmitAnswerResponse covers both branches of an answer submission. With
// more questions remaining, NextQuestion is set; on the last question the
// finished fields are populated instead.
type SubmitAnswerResponse struct {
	Feedback       string                 `json:"feedback"`
	IsCorrect      bool                   `json:"is_correct"`
	CorrectAnswer  string                 `json:"correct_answer"`
	CurrentScore   int                    `json:"current_score"`
	TotalQuestions int                    `json:"total_questions"`
	QuizFinished   bool                   `json:"quiz_finished"`
	NextQuestion   *QuestionView          `json:"next_question,omitempty"`
	FinalScore     *int                   `json:"final_score,omitempty"`
	ResultsSummary []model.AnswerLogEntry `json:"results_summary,omitempty"`
	RankingSummary *RankingSummary        `json:"ranking_summary,omitempty"`
}
