package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	CampaignPending  = "pending"
	CampaignActive   = "active"
	CampaignRejected = "rejected"
)

type CreateCampaignRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	GoalAmount  float64   `json:"goal_amount"`
	EndDate     time.Time `json:"end_date"`
	ImageURL    *string   `json:"image_url,omitempty"`
}

type CampaignResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	GoalAmount     float64   `json:"goal_amount"`
	CurrentAmount  float64   `json:"current_amount"`
	Progress       float64   `json:"progress"`
	Status         string    `json:"status"`
	EndDate        time.Time `json:"end_date"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CreatorID      uuid.UUID `json:"creator_id"`
	CreatorName    *string   `json:"creator_name,omitempty"`
	DonationsCount int       `json:"donations_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
