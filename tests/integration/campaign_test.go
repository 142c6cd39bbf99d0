package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignService_Integration_Lifecycle(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	campaigns := services.NewCampaignService(tdb.DB, cache.Noop{})
	ctx := context.Background()

	creator := fixtures.CreateProfile(t)

	created, err := campaigns.Create(ctx, creator.ID, services.CampaignInput{
		Title:       "Clean water",
		Description: "Wells for the valley",
		Category:    "community",
		GoalAmount:  5000,
		EndDate:     time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignPending, created.Status)
	assert.Equal(t, 0.0, created.CurrentAmount)

	active, err := campaigns.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	approved, err := campaigns.UpdateStatus(ctx, created.ID, models.CampaignActive)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignActive, approved.Status)

	_, err = campaigns.UpdateStatus(ctx, created.ID, models.CampaignRejected)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	active, err = campaigns.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, created.ID, active[0].ID)

	err = campaigns.Delete(ctx, created.ID, false)
	assert.ErrorIs(t, err, services.ErrConfirmationRequired)

	require.NoError(t, campaigns.Delete(ctx, created.ID, true))
	_, err = campaigns.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCampaignService_Integration_ListActiveNewestFirst(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	campaigns := services.NewCampaignService(tdb.DB, cache.Noop{})
	ctx := context.Background()

	creator := fixtures.CreateProfile(t)
	older := fixtures.CreateCampaign(t, creator.ID)
	fixtures.CreateCampaign(t, creator.ID, testutil.WithStatus(models.CampaignRejected))
	newer := fixtures.CreateCampaign(t, creator.ID)

	active, err := campaigns.ListActive(ctx)

	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, newer.ID, active[0].ID)
	assert.Equal(t, older.ID, active[1].ID)
}
