package model

import "time"

// Achievement is a badge definition. The catalog is seeded from explicit
// startup configuration, not a mutable global registry.
type Achievement struct {
	ID          string    `gorm:"primarykey;size:64" json:"id"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	IconClass   string    `json:"icon_class" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAchievement records that a user earned a badge. Grants are
// append-only and never revoked.
type UserAchievement struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	UserID        uint        `json:"user_id" gorm:"not null;uniqueIndex:uq_user_achievement,priority:1"`
	AchievementID string      `json:"achievement_id" gorm:"size:64;not null;uniqueIndex:uq_user_achievement,priority:2"`
	Achievement   Achievement `json:"achievement,omitempty" gorm:"foreignKey:AchievementID"`
	AwardedAt     time.Time   `json:"awarded_at" gorm:"autoCreateTime"`
}
