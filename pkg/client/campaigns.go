package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
)

// IdentitySource reports who is signed in.
type IdentitySource interface {
	Identity() *Identity
}

// CampaignInput is a new campaign as entered by the user.
type CampaignInput struct {
	Title       string
	Description string
	Category    string
	GoalAmount  float64
	EndDate     time.Time
	// Image is uploaded after the campaign is created. Optional.
	Image []byte
}

func (in CampaignInput) validate(now time.Time) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return invalid("title", "is required")
	case strings.TrimSpace(in.Description) == "":
		return invalid("description", "is required")
	case strings.TrimSpace(in.Category) == "":
		return invalid("category", "is required")
	case in.GoalAmount <= 0:
		return invalid("goal_amount", "must be greater than zero")
	case !in.EndDate.After(now):
		return invalid("end_date", "must be in the future")
	}
	return nil
}

type Campaigns struct {
	api     *API
	cache   *QueryCache
	session IdentitySource
	notify  Notifier
	nav     Navigator
	now     func() time.Time
}

// ListActive returns active campaigns, newest first.
func (c *Campaigns) ListActive(ctx context.Context) ([]dto.CampaignResponse, error) {
	out, err := cached(c.cache, keyActive, func() ([]dto.CampaignResponse, error) {
		var out []dto.CampaignResponse
		err := c.api.get(ctx, "/campaigns", &out)
		return out, err
	})
	return out, notifyErr(c.notify, err)
}

func (c *Campaigns) Get(ctx context.Context, id uuid.UUID) (*dto.CampaignResponse, error) {
	out, err := cached(c.cache, campaignKey(id.String()), func() (*dto.CampaignResponse, error) {
		var out dto.CampaignResponse
		if err := c.api.get(ctx, "/campaigns/"+id.String(), &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	return out, notifyErr(c.notify, err)
}

// Donations lists the donations made to a campaign.
func (c *Campaigns) Donations(ctx context.Context, id uuid.UUID) ([]dto.DonationResponse, error) {
	out, err := cached(c.cache, campaignDonationsKey(id.String()), func() ([]dto.DonationResponse, error) {
		var out []dto.DonationResponse
		err := c.api.get(ctx, "/campaigns/"+id.String()+"/donations", &out)
		return out, err
	})
	return out, notifyErr(c.notify, err)
}

// Create submits a campaign for review. It always starts pending. When an
// image is given it is uploaded once the campaign exists; an upload failure
// is reported but the campaign stays created.
func (c *Campaigns) Create(ctx context.Context, in CampaignInput) (*dto.CampaignResponse, error) {
	if c.session.Identity() == nil {
		c.nav.Navigate(RouteLogin)
		return nil, notifyErr(c.notify, ErrAuthRequired)
	}
	if err := in.validate(c.now()); err != nil {
		return nil, notifyErr(c.notify, err)
	}

	req := dto.CreateCampaignRequest{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		GoalAmount:  in.GoalAmount,
		EndDate:     in.EndDate,
	}

	var created dto.CampaignResponse
	if err := c.api.post(ctx, "/campaigns", req, &created); err != nil {
		return nil, notifyErr(c.notify, err)
	}
	c.cache.Invalidate(keyCampaigns)
	c.cache.Invalidate(keyAdmin)

	if len(in.Image) > 0 {
		updated, err := c.UploadImage(ctx, created.ID, in.Image)
		if err != nil {
			return &created, fmt.Errorf("campaign created without image: %w", err)
		}
		return updated, nil
	}
	return &created, nil
}

func (c *Campaigns) UploadImage(ctx context.Context, id uuid.UUID, image []byte) (*dto.CampaignResponse, error) {
	if len(image) == 0 {
		return nil, notifyErr(c.notify, invalid("image", "is empty"))
	}

	var out dto.CampaignResponse
	if err := c.api.upload(ctx, "/campaigns/"+id.String()+"/image", image, &out); err != nil {
		return nil, notifyErr(c.notify, err)
	}
	c.cache.Invalidate(campaignKey(id.String()))
	c.cache.Invalidate(keyActive)
	c.cache.Invalidate(keyAdmin)
	return &out, nil
}
