package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const campaignColumns = `c.id, c.title, c.description, c.category, c.goal_amount::float8, c.current_amount::float8,
	c.status, c.end_date, c.image_url, c.creator_id, p.full_name, c.donations_count, c.created_at, c.updated_at`

const campaignFrom = `FROM campaigns c LEFT JOIN profiles p ON p.id = c.creator_id`

type CampaignInput struct {
	Title       string
	Description string
	Category    string
	GoalAmount  float64
	EndDate     time.Time
	ImageURL    *string
}

// Validate checks the fields a creator must supply. now is the reference
// point for the end date.
func (in CampaignInput) Validate(now time.Time) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return invalid("description", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return invalid("category", "is required")
	}
	if in.GoalAmount <= 0 {
		return invalid("goal_amount", "must be greater than zero")
	}
	if !in.EndDate.After(now) {
		return invalid("end_date", "must be in the future")
	}
	return nil
}

type CampaignService struct {
	db    *database.DB
	cache cache.Cache
	now   func() time.Time
}

func NewCampaignService(db *database.DB, c cache.Cache) *CampaignService {
	return &CampaignService{db: db, cache: c, now: time.Now}
}

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.GoalAmount, &c.CurrentAmount,
		&c.Status, &c.EndDate, &c.ImageURL, &c.CreatorID, &c.CreatorName, &c.DonationsCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]models.Campaign, error) {
	defer rows.Close()
	campaigns := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// ListActive returns active campaigns, newest first.
func (s *CampaignService) ListActive(ctx context.Context) ([]models.Campaign, error) {
	var cached []models.Campaign
	if ok, _ := s.cache.Get(ctx, cache.KeyActiveCampaigns, &cached); ok {
		return cached, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+campaignColumns+` `+campaignFrom+`
		WHERE c.status = $1
		ORDER BY c.created_at DESC
	`, models.CampaignActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	campaigns, err := collectCampaigns(rows)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cache.KeyActiveCampaigns, campaigns)
	return campaigns, nil
}

// ListAll is the admin view: every campaign with its creator's name.
func (s *CampaignService) ListAll(ctx context.Context) ([]models.Campaign, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+campaignColumns+` `+campaignFrom+`
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return collectCampaigns(rows)
}

func (s *CampaignService) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, err := scanCampaign(s.db.Pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` `+campaignFrom+`
		WHERE c.id = $1
	`, id))
	if err != nil {
		return nil, notFound(err, "campaign")
	}
	return c, nil
}

// Create stores a new campaign. Status is always pending.
func (s *CampaignService) Create(ctx context.Context, creatorID uuid.UUID, in CampaignInput) (*models.Campaign, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO campaigns (title, description, category, goal_amount, end_date, image_url, creator_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, strings.TrimSpace(in.Title), strings.TrimSpace(in.Description), strings.TrimSpace(in.Category),
		in.GoalAmount, in.EndDate, in.ImageURL, creatorID, models.CampaignPending).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	return s.GetByID(ctx, id)
}

// UpdateStatus moves a pending campaign to active or rejected.
func (s *CampaignService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.CampaignStatus) (*models.Campaign, error) {
	if !next.Valid() {
		return nil, invalid("status", "must be pending, active or rejected")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next)
	}

	// The status guard in WHERE loses cleanly to a concurrent decision.
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE campaigns SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, next, id, models.CampaignPending)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: campaign already decided", ErrInvalidTransition)
	}

	s.invalidateActive(ctx)
	current.Status = next
	return current, nil
}

// Delete removes a campaign and its donations. confirmed must be true.
func (s *CampaignService) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaign: %w", ErrNotFound)
	}

	s.invalidateActive(ctx)
	return nil
}

// SetImage attaches an uploaded image. Only the creator or an admin may do so.
func (s *CampaignService) SetImage(ctx context.Context, id, actorID uuid.UUID, actorIsAdmin bool, imageURL string) (*models.Campaign, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.CreatorID != actorID && !actorIsAdmin {
		return nil, ErrAuthorization
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE campaigns SET image_url = $1, updated_at = NOW()
		WHERE id = $2
	`, imageURL, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	s.invalidateActive(ctx)
	current.ImageURL = &imageURL
	return current, nil
}

func (s *CampaignService) invalidateActive(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cache.KeyActiveCampaigns)
}

// IsNotFound is shorthand used by callers that branch on a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
