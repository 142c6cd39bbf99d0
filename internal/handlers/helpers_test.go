package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestJWTService() *services.JWTService {
	return services.NewJWTService(testSecret, 15*time.Minute, 24*time.Hour)
}

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, identityID uuid.UUID, email string) string {
	t.Helper()
	pair, err := jwtSvc.GenerateTokenPair(identityID, email, "Test User")
	require.NoError(t, err)
	return pair.AccessToken
}

func testIdentity(id uuid.UUID) *models.Identity {
	name := "Test User"
	return &models.Identity{
		ID:       id,
		Email:    "test@example.com",
		FullName: &name,
		Provider: models.ProviderEmail,
	}
}

func testProfile(id uuid.UUID, isAdmin bool) *models.Profile {
	name := "Test User"
	return &models.Profile{ID: id, FullName: &name, IsAdmin: isAdmin, CreatedAt: time.Now(), UpdatedAt: time.Now()}
}

func testCampaign(creatorID uuid.UUID, status models.CampaignStatus) *models.Campaign {
	return &models.Campaign{
		ID:            uuid.New(),
		Title:         "Clean Water",
		Description:   "Wells for the valley",
		Category:      "community",
		GoalAmount:    5000,
		CurrentAmount: 1250,
		Status:        status,
		EndDate:       time.Now().Add(30 * 24 * time.Hour),
		CreatorID:     creatorID,
	}
}

// serve sends a request with an optional JSON body and bearer token.
func serve(t *testing.T, app http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": testutil.AuthHeader(token)}
	}
	return testutil.NewHTTPTestClient(t, app).Request(method, path, body, headers)
}
