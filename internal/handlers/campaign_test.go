package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/dimitrije/crowdfund-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type campaignTest struct {
	campaigns *testutil.MockCampaignService
	donations *testutil.MockDonationService
	profiles  *testutil.MockProfileService
	uploads   *testutil.MockUploadService
	app       http.Handler
	jwt       *services.JWTService
}

func setupCampaignTest(t *testing.T) *campaignTest {
	t.Helper()
	ct := &campaignTest{
		campaigns: new(testutil.MockCampaignService),
		donations: new(testutil.MockDonationService),
		profiles:  new(testutil.MockProfileService),
		uploads:   new(testutil.MockUploadService),
		jwt:       newTestJWTService(),
	}
	handler := NewCampaignHandler(ct.campaigns, ct.donations, ct.profiles, ct.uploads)
	verifier := middleware.NewJWTVerifier(ct.jwt)

	app := drift.New()
	app.Use(driftmw.BodyParser())

	public := app.Group("")
	public.Use(middleware.OptionalAuth(verifier))
	public.Get("/campaigns", handler.ListActive)
	public.Get("/campaigns/:id", handler.Get)
	public.Get("/campaigns/:id/donations", handler.ListDonations)

	protected := app.Group("")
	protected.Use(middleware.Auth(verifier))
	protected.Post("/campaigns", handler.Create)
	protected.Post("/campaigns/:id/image", handler.UploadImage)

	ct.app = app
	return ct
}

func TestCampaignHandler_ListActive(t *testing.T) {
	ct := setupCampaignTest(t)
	campaign := testCampaign(uuid.New(), models.CampaignActive)
	ct.campaigns.On("ListActive", mock.Anything).Return([]models.Campaign{*campaign}, nil)

	rec := serve(t, ct.app, http.MethodGet, "/campaigns", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.CampaignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, campaign.ID, resp[0].ID)
	assert.Equal(t, 25.0, resp[0].Progress)
}

func TestCampaignHandler_Get_Active(t *testing.T) {
	ct := setupCampaignTest(t)
	campaign := testCampaign(uuid.New(), models.CampaignActive)
	ct.campaigns.On("GetByID", mock.Anything, campaign.ID).Return(campaign, nil)

	rec := serve(t, ct.app, http.MethodGet, "/campaigns/"+campaign.ID.String(), nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Clean Water")
}

func TestCampaignHandler_Get_PendingHiddenFromStrangers(t *testing.T) {
	ct := setupCampaignTest(t)
	campaign := testCampaign(uuid.New(), models.CampaignPending)
	stranger := uuid.New()
	ct.campaigns.On("GetByID", mock.Anything, campaign.ID).Return(campaign, nil)
	ct.profiles.On("IsAdmin", mock.Anything, stranger).Return(false, nil)

	anonymous := serve(t, ct.app, http.MethodGet, "/campaigns/"+campaign.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, anonymous.Code)

	token := generateTestToken(t, ct.jwt, stranger, "s@example.com")
	rec := serve(t, ct.app, http.MethodGet, "/campaigns/"+campaign.ID.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCampaignHandler_Get_PendingVisibleToCreator(t *testing.T) {
	ct := setupCampaignTest(t)
	creator := uuid.New()
	campaign := testCampaign(creator, models.CampaignPending)
	ct.campaigns.On("GetByID", mock.Anything, campaign.ID).Return(campaign, nil)

	token := generateTestToken(t, ct.jwt, creator, "c@example.com")
	rec := serve(t, ct.app, http.MethodGet, "/campaigns/"+campaign.ID.String(), nil, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	ct.profiles.AssertNotCalled(t, "IsAdmin", mock.Anything, mock.Anything)
}

func TestCampaignHandler_Get_InvalidID(t *testing.T) {
	ct := setupCampaignTest(t)

	rec := serve(t, ct.app, http.MethodGet, "/campaigns/not-a-uuid", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCampaignHandler_Get_NotFound(t *testing.T) {
	ct := setupCampaignTest(t)
	id := uuid.New()
	ct.campaigns.On("GetByID", mock.Anything, id).Return(nil, services.ErrNotFound)

	rec := serve(t, ct.app, http.MethodGet, "/campaigns/"+id.String(), nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCampaignHandler_Create(t *testing.T) {
	ct := setupCampaignTest(t)
	creator := uuid.New()
	endDate := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	created := testCampaign(creator, models.CampaignPending)
	ct.profiles.On("Sync", mock.Anything, creator, "Test User").Return(testProfile(creator, false), nil)
	ct.campaigns.On("Create", mock.Anything, creator, mock.MatchedBy(func(in services.CampaignInput) bool {
		return in.Title == "Clean Water" && in.GoalAmount == 5000 && in.EndDate.Equal(endDate)
	})).Return(created, nil)

	token := generateTestToken(t, ct.jwt, creator, "c@example.com")
	rec := serve(t, ct.app, http.MethodPost, "/campaigns", dto.CreateCampaignRequest{
		Title:       "Clean Water",
		Description: "Wells for the valley",
		Category:    "community",
		GoalAmount:  5000,
		EndDate:     endDate,
	}, token)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	ct.campaigns.AssertExpectations(t)
}

func TestCampaignHandler_Create_Validation(t *testing.T) {
	ct := setupCampaignTest(t)
	creator := uuid.New()

	ct.profiles.On("Sync", mock.Anything, creator, mock.Anything).Return(testProfile(creator, false), nil)
	ct.campaigns.On("Create", mock.Anything, creator, mock.Anything).
		Return(nil, &services.ValidationError{Field: "goal_amount", Message: "must be greater than zero"})

	token := generateTestToken(t, ct.jwt, creator, "c@example.com")
	rec := serve(t, ct.app, http.MethodPost, "/campaigns", dto.CreateCampaignRequest{Title: "x"}, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "goal_amount")
}

func TestCampaignHandler_Create_RequiresAuth(t *testing.T) {
	ct := setupCampaignTest(t)

	rec := serve(t, ct.app, http.MethodPost, "/campaigns", dto.CreateCampaignRequest{Title: "x"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	ct.campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignHandler_ListDonations(t *testing.T) {
	ct := setupCampaignTest(t)
	campaignID := uuid.New()
	ct.donations.On("ListByCampaign", mock.Anything, campaignID).Return([]models.Donation{
		{ID: uuid.New(), CampaignID: campaignID, Amount: 50, PaymentStatus: models.PaymentCompleted},
	}, nil)

	rec := serve(t, ct.app, http.MethodGet, "/campaigns/"+campaignID.String()+"/donations", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":50`)
}
