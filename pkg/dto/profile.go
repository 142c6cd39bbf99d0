package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  *string   `json:"full_name,omitempty"`
	Username  *string   `json:"username,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest leaves nil fields untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Username *string `json:"username,omitempty"`
}

type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
