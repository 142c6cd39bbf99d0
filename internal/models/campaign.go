package models

import (
	"time"

	"github.com/google/uuid"
)

type CampaignStatus string

const (
	CampaignPending  CampaignStatus = "pending"
	CampaignActive   CampaignStatus = "active"
	CampaignRejected CampaignStatus = "rejected"
)

// CanTransition reports whether an admin may move a campaign from s to next.
// Only pending campaigns move, and only to active or rejected.
func (s CampaignStatus) CanTransition(next CampaignStatus) bool {
	return s == CampaignPending && (next == CampaignActive || next == CampaignRejected)
}

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignPending, CampaignActive, CampaignRejected:
		return true
	}
	return false
}

type Campaign struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	GoalAmount     float64        `json:"goal_amount"`
	CurrentAmount  float64        `json:"current_amount"`
	Status         CampaignStatus `json:"status"`
	EndDate        time.Time      `json:"end_date"`
	ImageURL       *string        `json:"image_url,omitempty"`
	CreatorID      uuid.UUID      `json:"creator_id"`
	CreatorName    *string        `json:"creator_name,omitempty"`
	DonationsCount int            `json:"donations_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Progress is the funded percentage, capped at 100.
func (c *Campaign) Progress() float64 {
	return Progress(c.CurrentAmount, c.GoalAmount)
}

func Progress(current, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := current / goal * 100
	if p > 100 {
		return 100
	}
	return p
}
