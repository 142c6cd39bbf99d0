package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
)

type StatsService struct {
	db *database.DB
}

func NewStatsService(db *database.DB) *StatsService {
	return &StatsService{db: db}
}

// Dashboard sums completed donations and counts campaigns by status.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM donations WHERE payment_status = $1), 0)::float8,
			(SELECT COUNT(*) FROM campaigns WHERE status = $2),
			(SELECT COUNT(*) FROM campaigns WHERE status = $3)
	`, models.PaymentCompleted, models.CampaignActive, models.CampaignPending).
		Scan(&stats.TotalRaised, &stats.ActiveCampaigns, &stats.PendingCampaigns)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &stats, nil
}
