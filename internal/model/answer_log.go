package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// AnswerLogEntry is one immutable record in a session's answer log. The
// shape is fixed; optional fields (topic, source URL) are empty strings
// rather than absent keys.
type AnswerLogEntry struct {
	QuestionText  string `json:"question_text"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Feedback      string `json:"feedback"`
	SourceURL     string `json:"source_url"`
	Topic         string `json:"topic"`
}

// AnswerLog is stored as a JSONB column.
type AnswerLog []AnswerLogEntry

// Scan implements sql.Scanner so GORM can read the JSONB column.
func (l *AnswerLog) Scan(value interface{}) error {
	if value == nil {
		*l = AnswerLog{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, isString := value.(string); isString {
			bytes = []byte(s)
		} else {
			return errors.New("failed to unmarshal JSONB value into AnswerLog")
		}
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer so GORM can write the JSONB column.
func (l AnswerLog) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(AnswerLog{})
	}
	return json.Marshal(l)
}
