package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	TestimonialPending  = "pending"
	TestimonialApproved = "approved"
	TestimonialRejected = "rejected"
)

type CreateTestimonialRequest struct {
	Content string  `json:"content"`
	Role    *string `json:"role,omitempty"`
}

type TestimonialResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Content    string    `json:"content"`
	Role       *string   `json:"role,omitempty"`
	Status     string    `json:"status"`
	IsFeatured bool      `json:"is_featured"`
	AuthorName *string   `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type SetFeaturedRequest struct {
	IsFeatured bool `json:"is_featured"`
}
