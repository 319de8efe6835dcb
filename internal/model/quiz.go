package model

import "time"

// Quiz access modes.
const (
	QuizModeOnDemand  = "on_demand"
	QuizModeScheduled = "scheduled"
)

// DefaultQuestionTimeLimit is the per-question time limit in seconds used
// when a quiz does not specify one.
const DefaultQuestionTimeLimit = 15

type Quiz struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	Name                 string         `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description          string         `json:"description,omitempty" gorm:"type:text"`
	TimeLimitPerQuestion int            `json:"time_limit_per_question" gorm:"not null;default:15"`
	IsActive             bool           `json:"is_active" gorm:"not null;default:true"`
	Mode                 string         `json:"mode" gorm:"size:20;not null;default:'on_demand'"`
	StartTime            *time.Time     `json:"start_time,omitempty"` // stored naive, interpreted as UTC
	AllowRetakes         bool           `json:"allow_retakes" gorm:"not null;default:false"`
	QuizQuestions        []QuizQuestion `json:"-" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func (q *Quiz) IsScheduled() bool {
	return q.Mode == QuizModeScheduled
}

// StartTimeUTC normalizes the stored start time. SQL timestamps come back
// timezone-naive, so a missing location is treated as UTC.
func (q *Quiz) StartTimeUTC() *time.Time {
	if q.StartTime == nil {
		return nil
	}
	t := q.StartTime.UTC()
	return &t
}
