package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationService_Integration_SubmitRaisesTotal(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	donations := services.NewDonationService(tdb.DB, cache.Noop{})
	campaigns := services.NewCampaignService(tdb.DB, cache.Noop{})
	ctx := context.Background()

	creator := fixtures.CreateProfile(t)
	donor := fixtures.CreateProfile(t)
	campaign := fixtures.CreateCampaign(t, creator.ID, testutil.WithAmounts(1000, 5000))

	donation, err := donations.Submit(ctx, donor.ID, campaign.ID, 250, models.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, donation.PaymentStatus)

	updated, err := campaigns.GetByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1250.0, updated.CurrentAmount)
	assert.Equal(t, 1, updated.DonationsCount)
	assert.Equal(t, 25.0, updated.Progress())
}

// Two donors racing on the same campaign must both be counted.
func TestDonationService_Integration_ConcurrentDonationsAreNotLost(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	donations := services.NewDonationService(tdb.DB, cache.Noop{})
	campaigns := services.NewCampaignService(tdb.DB, cache.Noop{})
	ctx := context.Background()

	creator := fixtures.CreateProfile(t)
	first := fixtures.CreateProfile(t)
	second := fixtures.CreateProfile(t)
	campaign := fixtures.CreateCampaign(t, creator.ID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, donor := range []*models.Profile{first, second} {
		wg.Add(1)
		go func(i int, donor *models.Profile) {
			defer wg.Done()
			_, errs[i] = donations.Submit(ctx, donor.ID, campaign.ID, 100, models.PaymentCompleted)
		}(i, donor)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	updated, err := campaigns.GetByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.CurrentAmount)
	assert.Equal(t, 2, updated.DonationsCount)
}

func TestDonationService_Integration_PendingPledgeCountsOnCompletion(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	donations := services.NewDonationService(tdb.DB, cache.Noop{})
	campaigns := services.NewCampaignService(tdb.DB, cache.Noop{})
	ctx := context.Background()

	creator := fixtures.CreateProfile(t)
	donor := fixtures.CreateProfile(t)
	campaign := fixtures.CreateCampaign(t, creator.ID)

	pledge, err := donations.Submit(ctx, donor.ID, campaign.ID, 75, models.PaymentPending)
	require.NoError(t, err)

	unchanged, err := campaigns.GetByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, unchanged.CurrentAmount)

	_, err = donations.Complete(ctx, pledge.ID)
	require.NoError(t, err)

	updated, err := campaigns.GetByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.CurrentAmount)

	_, err = donations.Complete(ctx, pledge.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestDonationService_Integration_RejectsInactiveCampaign(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	donations := services.NewDonationService(tdb.DB, cache.Noop{})
	ctx := context.Background()

	creator := fixtures.CreateProfile(t)
	donor := fixtures.CreateProfile(t)
	campaign := fixtures.CreateCampaign(t, creator.ID, testutil.WithStatus(models.CampaignPending))

	_, err := donations.Submit(ctx, donor.ID, campaign.ID, 10, models.PaymentCompleted)

	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDonationService_Integration_ListRecentCapsAtTen(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	donations := services.NewDonationService(tdb.DB, cache.Noop{})
	ctx := context.Background()

	creator := fixtures.CreateProfile(t)
	donor := fixtures.CreateProfile(t)
	campaign := fixtures.CreateCampaign(t, creator.ID)

	for i := 0; i < 12; i++ {
		_, err := donations.Submit(ctx, donor.ID, campaign.ID, float64(i+1), models.PaymentCompleted)
		require.NoError(t, err)
	}

	recent, err := donations.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, 12.0, recent[0].Amount)
	require.NotNil(t, recent[0].CampaignTitle)
	assert.Equal(t, campaign.Title, *recent[0].CampaignTitle)
}
