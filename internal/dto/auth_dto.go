package dto

// GoogleLoginRequest carries the ID token obtained from Google Sign-In on
// the client.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// DevLoginRequest provisions a local password-free user. Only honored when
// ALLOW_DEV_LOGIN is set.
type DevLoginRequest struct {
	Name string `json:"name" binding:"required"`
}

// AnonymousLoginRequest provisions a nickname-only guest identity. Every
// call mints a fresh user; there is no credential to find them again.
type AnonymousLoginRequest struct {
	Name string `json:"name" binding:"required"`
}

type UserDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}

type TokenResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
