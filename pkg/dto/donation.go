package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Donation amounts are stored as NUMERIC(14, 2); anything outside these
// bounds would round to zero or overflow the campaign total.
const (
	MinDonationAmount = 0.01
	MaxDonationAmount = 1_000_000_000
)

// ValidDonationAmount also rejects NaN.
func ValidDonationAmount(amount float64) bool {
	return amount >= MinDonationAmount && amount <= MaxDonationAmount
}

const DonationAmountMessage = "must be between 0.01 and 1000000000"

type CreateDonationRequest struct {
	CampaignID    uuid.UUID `json:"campaign_id"`
	Amount        float64   `json:"amount"`
	PaymentStatus string    `json:"payment_status,omitempty"`
}

type DonationResponse struct {
	ID            uuid.UUID `json:"id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	DonorID       uuid.UUID `json:"donor_id"`
	Amount        float64   `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	CampaignTitle *string   `json:"campaign_title,omitempty"`
	DonorName     *string   `json:"donor_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type DashboardStatsResponse struct {
	TotalRaised      float64 `json:"total_raised"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	PendingCampaigns int     `json:"pending_campaigns"`
}
