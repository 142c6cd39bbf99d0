package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var donationCols = []string{"id", "campaign_id", "donor_id", "amount", "payment_status", "title", "full_name", "created_at", "updated_at"}

func setupDonationService(t *testing.T) (*DonationService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewDonationService(&database.DB{Pool: mock}, cache.Noop{}), mock
}

func donationRow(id, campaignID, donorID uuid.UUID, amount float64, status models.PaymentStatus) *pgxmock.Rows {
	title := "Clean Water"
	donor := "Dana Donor"
	now := time.Now()
	return pgxmock.NewRows(donationCols).AddRow(id, campaignID, donorID, amount, status, &title, &donor, now, now)
}

func TestDonationService_Submit_CreditsCampaignAtomically(t *testing.T) {
	svc, mock := setupDonationService(t)
	donor, campaign, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM campaigns WHERE id = .+ FOR UPDATE`).
		WithArgs(campaign).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.CampaignActive))
	mock.ExpectQuery(`INSERT INTO donations`).
		WithArgs(campaign, donor, 250.0, models.PaymentCompleted).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectExec(`UPDATE campaigns SET current_amount = current_amount \+ \$1, donations_count = donations_count \+ 1`).
		WithArgs(250.0, campaign).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .+ FROM donations d .+ WHERE d.id`).
		WithArgs(id).
		WillReturnRows(donationRow(id, campaign, donor, 250, models.PaymentCompleted))

	d, err := svc.Submit(context.Background(), donor, campaign, 250, "")

	require.NoError(t, err)
	assert.Equal(t, 250.0, d.Amount)
	assert.Equal(t, models.PaymentCompleted, d.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_Submit_PendingPledgeLeavesTotal(t *testing.T) {
	svc, mock := setupDonationService(t)
	donor, campaign, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM campaigns`).
		WithArgs(campaign).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.CampaignActive))
	mock.ExpectQuery(`INSERT INTO donations`).
		WithArgs(campaign, donor, 40.0, models.PaymentPending).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .+ FROM donations d`).
		WithArgs(id).
		WillReturnRows(donationRow(id, campaign, donor, 40, models.PaymentPending))

	d, err := svc.Submit(context.Background(), donor, campaign, 40, models.PaymentPending)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, d.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_Submit_RejectedBeforeAnyWrite(t *testing.T) {
	svc, mock := setupDonationService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, uuid.Nil, uuid.New(), 100, "")
	assert.ErrorIs(t, err, ErrAuthRequired)

	for _, amount := range []float64{0, -5, 0.004, 1e12, math.NaN()} {
		_, err = svc.Submit(ctx, uuid.New(), uuid.New(), amount, "")
		assert.True(t, IsValidation(err))
	}

	_, err = svc.Submit(ctx, uuid.New(), uuid.New(), 10, models.PaymentStatus("refunded"))
	assert.True(t, IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_Submit_InactiveCampaign(t *testing.T) {
	svc, mock := setupDonationService(t)
	campaign := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM campaigns`).
		WithArgs(campaign).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.CampaignPending))
	mock.ExpectRollback()

	_, err := svc.Submit(context.Background(), uuid.New(), campaign, 100, "")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "campaign_id", verr.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_Submit_UnknownCampaign(t *testing.T) {
	svc, mock := setupDonationService(t)
	campaign := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM campaigns`).
		WithArgs(campaign).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Submit(context.Background(), uuid.New(), campaign, 100, "")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_Submit_CreditFailureRollsBack(t *testing.T) {
	svc, mock := setupDonationService(t)
	donor, campaign := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM campaigns`).
		WithArgs(campaign).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.CampaignActive))
	mock.ExpectQuery(`INSERT INTO donations`).
		WithArgs(campaign, donor, 100.0, models.PaymentCompleted).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(`UPDATE campaigns SET current_amount`).
		WithArgs(100.0, campaign).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.Submit(context.Background(), donor, campaign, 100, models.PaymentCompleted)

	assert.ErrorIs(t, err, ErrRemoteWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_Complete(t *testing.T) {
	svc, mock := setupDonationService(t)
	id, campaign := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE donations SET payment_status`).
		WithArgs(models.PaymentCompleted, id, models.PaymentPending).
		WillReturnRows(pgxmock.NewRows([]string{"campaign_id", "amount"}).AddRow(campaign, 75.0))
	mock.ExpectExec(`UPDATE campaigns SET current_amount = current_amount \+ \$1`).
		WithArgs(75.0, campaign).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .+ FROM donations d`).
		WithArgs(id).
		WillReturnRows(donationRow(id, campaign, uuid.New(), 75, models.PaymentCompleted))

	d, err := svc.Complete(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, d.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_Complete_NotPending(t *testing.T) {
	svc, mock := setupDonationService(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE donations SET payment_status`).
		WithArgs(models.PaymentCompleted, id, models.PaymentPending).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Complete(context.Background(), id)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonationService_ListRecent(t *testing.T) {
	svc, mock := setupDonationService(t)
	rows := donationRow(uuid.New(), uuid.New(), uuid.New(), 10, models.PaymentCompleted)

	mock.ExpectQuery(`SELECT .+ ORDER BY d.created_at DESC LIMIT`).
		WithArgs(10).
		WillReturnRows(rows)

	donations, err := svc.ListRecent(context.Background())

	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, "Clean Water", *donations[0].CampaignTitle)
	assert.Equal(t, "Dana Donor", *donations[0].DonorName)
}

func TestDonationService_ListByCampaign(t *testing.T) {
	svc, mock := setupDonationService(t)
	campaign := uuid.New()

	mock.ExpectQuery(`SELECT .+ WHERE d.campaign_id`).
		WithArgs(campaign).
		WillReturnRows(pgxmock.NewRows(donationCols))

	donations, err := svc.ListByCampaign(context.Background(), campaign)

	require.NoError(t, err)
	assert.Empty(t, donations)
	assert.NotNil(t, donations)
}
