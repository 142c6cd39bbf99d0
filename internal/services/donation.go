package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recentDonationsLimit = 10

const donationColumns = `d.id, d.campaign_id, d.donor_id, d.amount::float8, d.payment_status,
	c.title, p.full_name, d.created_at, d.updated_at`

const donationFrom = `FROM donations d
	JOIN campaigns c ON c.id = d.campaign_id
	LEFT JOIN profiles p ON p.id = d.donor_id`

type DonationService struct {
	db    *database.DB
	cache cache.Cache
}

func NewDonationService(db *database.DB, c cache.Cache) *DonationService {
	return &DonationService{db: db, cache: c}
}

func scanDonation(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	err := row.Scan(&d.ID, &d.CampaignID, &d.DonorID, &d.Amount, &d.PaymentStatus,
		&d.CampaignTitle, &d.DonorName, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Submit records a donation against an active campaign. A completed donation
// raises the campaign total in the same transaction with an in-place
// increment, so concurrent donors never overwrite each other. A pending
// pledge is recorded without touching the total until it completes.
func (s *DonationService) Submit(ctx context.Context, donorID, campaignID uuid.UUID, amount float64, status models.PaymentStatus) (*models.Donation, error) {
	if donorID == uuid.Nil {
		return nil, ErrAuthRequired
	}
	if !dto.ValidDonationAmount(amount) {
		return nil, invalid("amount", dto.DonationAmountMessage)
	}
	if status == "" {
		status = models.PaymentCompleted
	}
	if !status.Valid() {
		return nil, invalid("payment_status", "must be pending or completed")
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	defer tx.Rollback(ctx)

	var campaignStatus models.CampaignStatus
	err = tx.QueryRow(ctx, `SELECT status FROM campaigns WHERE id = $1 FOR UPDATE`, campaignID).Scan(&campaignStatus)
	if err != nil {
		return nil, notFound(err, "campaign")
	}
	if campaignStatus != models.CampaignActive {
		return nil, invalid("campaign_id", "campaign is not accepting donations")
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO donations (campaign_id, donor_id, amount, payment_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, campaignID, donorID, amount, status).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	if status == models.PaymentCompleted {
		if err := creditCampaign(ctx, tx, campaignID, amount); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	if status == models.PaymentCompleted {
		_ = s.cache.Invalidate(ctx, cache.KeyActiveCampaigns)
	}
	return s.GetByID(ctx, id)
}

// Complete confirms a pending pledge and credits its campaign.
func (s *DonationService) Complete(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	defer tx.Rollback(ctx)

	var campaignID uuid.UUID
	var amount float64
	err = tx.QueryRow(ctx, `
		UPDATE donations SET payment_status = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = $3
		RETURNING campaign_id, amount::float8
	`, models.PaymentCompleted, id, models.PaymentPending).Scan(&campaignID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: donation is not pending", ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	if err := creditCampaign(ctx, tx, campaignID, amount); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	_ = s.cache.Invalidate(ctx, cache.KeyActiveCampaigns)
	return s.GetByID(ctx, id)
}

func creditCampaign(ctx context.Context, tx pgx.Tx, campaignID uuid.UUID, amount float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE campaigns
		SET current_amount = current_amount + $1,
			donations_count = donations_count + 1,
			updated_at = NOW()
		WHERE id = $2
	`, amount, campaignID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	return nil
}

func (s *DonationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	d, err := scanDonation(s.db.Pool.QueryRow(ctx, `
		SELECT `+donationColumns+` `+donationFrom+`
		WHERE d.id = $1
	`, id))
	if err != nil {
		return nil, notFound(err, "donation")
	}
	return d, nil
}

// ListRecent returns the latest donations across all campaigns with campaign
// title and donor name.
func (s *DonationService) ListRecent(ctx context.Context) ([]models.Donation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+donationColumns+` `+donationFrom+`
		ORDER BY d.created_at DESC
		LIMIT $1
	`, recentDonationsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return collectDonations(rows)
}

func (s *DonationService) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Donation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+donationColumns+` `+donationFrom+`
		WHERE d.campaign_id = $1
		ORDER BY d.created_at DESC
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return collectDonations(rows)
}

func collectDonations(rows pgx.Rows) ([]models.Donation, error) {
	defer rows.Close()
	donations := []models.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, *d)
	}
	return donations, rows.Err()
}
