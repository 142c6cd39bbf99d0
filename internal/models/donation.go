package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted
}

type Donation struct {
	ID            uuid.UUID     `json:"id"`
	CampaignID    uuid.UUID     `json:"campaign_id"`
	DonorID       uuid.UUID     `json:"donor_id"`
	Amount        float64       `json:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CampaignTitle *string       `json:"campaign_title,omitempty"`
	DonorName     *string       `json:"donor_name,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// DashboardStats backs the admin overview.
type DashboardStats struct {
	TotalRaised      float64 `json:"total_raised"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	PendingCampaigns int     `json:"pending_campaigns"`
}
