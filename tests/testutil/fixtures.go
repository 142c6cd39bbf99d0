package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateIdentity inserts an email identity without a password
func (f *Fixtures) CreateIdentity(t *testing.T) *models.Identity {
	t.Helper()
	f.counter++

	name := fmt.Sprintf("Test User %d", f.counter)
	identity := &models.Identity{
		Email:    fmt.Sprintf("user%d@example.com", f.counter),
		FullName: &name,
		Provider: models.ProviderEmail,
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO identities (email, full_name, provider)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, identity.Email, identity.FullName, identity.Provider).Scan(
		&identity.ID, &identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create identity: %v", err)
	}

	return identity
}

// ProfileOption configures a test profile
type ProfileOption func(*models.Profile)

func WithAdmin() ProfileOption {
	return func(p *models.Profile) { p.IsAdmin = true }
}

// CreateProfile inserts a profile for a fresh identity
func (f *Fixtures) CreateProfile(t *testing.T, opts ...ProfileOption) *models.Profile {
	t.Helper()

	identity := f.CreateIdentity(t)
	profile := &models.Profile{ID: identity.ID, FullName: identity.FullName}
	for _, opt := range opts {
		opt(profile)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO profiles (id, full_name, is_admin)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, profile.ID, profile.FullName, profile.IsAdmin).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return profile
}

// CampaignOption configures a test campaign
type CampaignOption func(*models.Campaign)

func WithStatus(status models.CampaignStatus) CampaignOption {
	return func(c *models.Campaign) { c.Status = status }
}

func WithAmounts(current, goal float64) CampaignOption {
	return func(c *models.Campaign) {
		c.CurrentAmount = current
		c.GoalAmount = goal
	}
}

// CreateCampaign inserts a campaign owned by creatorID. It is active by
// default so donations can be made against it.
func (f *Fixtures) CreateCampaign(t *testing.T, creatorID uuid.UUID, opts ...CampaignOption) *models.Campaign {
	t.Helper()
	f.counter++

	campaign := &models.Campaign{
		Title:       fmt.Sprintf("Campaign %d", f.counter),
		Description: "A test campaign",
		Category:    "community",
		GoalAmount:  5000,
		Status:      models.CampaignActive,
		EndDate:     time.Now().Add(30 * 24 * time.Hour),
		CreatorID:   creatorID,
	}
	for _, opt := range opts {
		opt(campaign)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO campaigns (title, description, category, goal_amount, current_amount, status, end_date, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, campaign.Title, campaign.Description, campaign.Category, campaign.GoalAmount, campaign.CurrentAmount,
		campaign.Status, campaign.EndDate, campaign.CreatorID).Scan(
		&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}

	return campaign
}
