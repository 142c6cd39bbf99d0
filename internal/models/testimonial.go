package models

import (
	"time"

	"github.com/google/uuid"
)

type TestimonialStatus string

const (
	TestimonialPending  TestimonialStatus = "pending"
	TestimonialApproved TestimonialStatus = "approved"
	TestimonialRejected TestimonialStatus = "rejected"
)

// CanTransition mirrors the campaign lifecycle: pending moves once, to
// approved or rejected, and both are terminal.
func (s TestimonialStatus) CanTransition(next TestimonialStatus) bool {
	return s == TestimonialPending && (next == TestimonialApproved || next == TestimonialRejected)
}

func (s TestimonialStatus) Valid() bool {
	switch s {
	case TestimonialPending, TestimonialApproved, TestimonialRejected:
		return true
	}
	return false
}

type Testimonial struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	Content    string            `json:"content"`
	Role       *string           `json:"role,omitempty"`
	Status     TestimonialStatus `json:"status"`
	IsFeatured bool              `json:"is_featured"`
	AuthorName *string           `json:"author_name,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
