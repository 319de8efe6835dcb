package dto

import "time"

// ResultSummaryDTO is one completed play-through in a user's history.
type ResultSummaryDTO struct {
	QuizID         uint      `json:"quiz_id"`
	QuizName       string    `json:"quiz_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentile     float64   `json:"percentile"`
	CompletedAt    time.Time `json:"completed_at"`
}

// TopicAccuracyDTO aggregates answer-log entries per topic.
type TopicAccuracyDTO struct {
	Topic          string  `json:"topic"`
	TotalAnswers   int     `json:"total_answers"`
	CorrectAnswers int     `json:"correct_answers"`
	AccuracyPct    float64 `json:"accuracy_pct"`
}

// AchievementDTO is an earned badge.
type AchievementDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IconClass   string    `json:"icon_class"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// MyStatsDTO is the payload of GET /api/user/my-stats.
type MyStatsDTO struct {
	Results      []ResultSummaryDTO `json:"results"`
	TopicStats   []TopicAccuracyDTO `json:"topic_stats"`
	Achievements []AchievementDTO   `json:"achievements"`
}

// LeaderboardEntryDTO is one row of the global leaderboard, ranked by
// average percentage score across all of a user's results.
type LeaderboardEntryDTO struct {
	UserID        uint    `json:"user_id"`
	Name          string  `json:"name"`
	AvatarURL     string  `json:"avatar_url,omitempty"`
	QuizzesPlayed int     `json:"quizzes_played"`
	AveragePct    float64 `json:"average_pct"`
}
