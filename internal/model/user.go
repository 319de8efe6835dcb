package model

import "time"

// User identity providers.
const (
	ProviderGoogle    = "google"
	ProviderDev       = "dev"
	ProviderAnonymous = "anonymous"
)

// User is an identity record. Externally-authenticated users carry the
// opaque ExternalID from the provider; dev and anonymous users only have a
// display name.
type User struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Provider   string    `json:"provider" gorm:"size:20;not null"`
	ExternalID *string   `json:"-" gorm:"size:255;uniqueIndex"`
	Email      string    `json:"email,omitempty" gorm:"size:255"`
	Name       string    `json:"name" gorm:"size:255;not null"`
	AvatarURL  string    `json:"avatar_url,omitempty" gorm:"type:text"`
	IsAdmin    bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
