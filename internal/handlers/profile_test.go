package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/internal/storage"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/dimitrije/crowdfund-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupProfileTest(t *testing.T) (*testutil.MockProfileService, *testutil.MockUploadService, http.Handler, string, uuid.UUID) {
	t.Helper()
	profiles := new(testutil.MockProfileService)
	uploads := new(testutil.MockUploadService)
	handler := NewProfileHandler(profiles, uploads)

	jwtSvc := newTestJWTService()
	identityID := uuid.New()
	token := generateTestToken(t, jwtSvc, identityID, "test@example.com")

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(middleware.NewJWTVerifier(jwtSvc)))
	app.Get("/session", handler.GetSession)
	app.Get("/profiles/me", handler.GetMe)
	app.Patch("/profiles/me", handler.UpdateMe)
	app.Post("/profiles/me/avatar", handler.UploadAvatar)

	return profiles, uploads, app, token, identityID
}

func TestProfileHandler_GetSession(t *testing.T) {
	profiles, _, app, token, identityID := setupProfileTest(t)
	profiles.On("Sync", mock.Anything, identityID, "Test User").Return(testProfile(identityID, true), nil)

	rec := serve(t, app, http.MethodGet, "/session", nil, token)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, identityID, resp.Identity.ID)
	assert.Equal(t, "test@example.com", resp.Identity.Email)
	require.NotNil(t, resp.Profile)
	assert.True(t, resp.Profile.IsAdmin)
}

func TestProfileHandler_GetSession_ProfileFailureDegrades(t *testing.T) {
	profiles, _, app, token, identityID := setupProfileTest(t)
	profiles.On("Sync", mock.Anything, identityID, mock.Anything).Return(nil, services.ErrProfileFetch)

	rec := serve(t, app, http.MethodGet, "/session", nil, token)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, identityID, resp.Identity.ID)
	assert.Nil(t, resp.Profile)
}

func TestProfileHandler_GetMe_RequiresAuth(t *testing.T) {
	_, _, app, _, _ := setupProfileTest(t)

	rec := serve(t, app, http.MethodGet, "/profiles/me", nil, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileHandler_UpdateMe(t *testing.T) {
	profiles, _, app, token, identityID := setupProfileTest(t)

	username := "ana_k"
	updated := testProfile(identityID, false)
	updated.Username = &username

	profiles.On("Sync", mock.Anything, identityID, mock.Anything).Return(testProfile(identityID, false), nil)
	profiles.On("UpdateOwn", mock.Anything, identityID, (*string)(nil), &username).Return(updated, nil)

	rec := serve(t, app, http.MethodPatch, "/profiles/me", dto.UpdateProfileRequest{Username: &username}, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana_k"`)
	profiles.AssertExpectations(t)
}

func TestProfileHandler_UpdateMe_UsernameTaken(t *testing.T) {
	profiles, _, app, token, identityID := setupProfileTest(t)

	username := "taken"
	profiles.On("Sync", mock.Anything, identityID, mock.Anything).Return(testProfile(identityID, false), nil)
	profiles.On("UpdateOwn", mock.Anything, identityID, mock.Anything, mock.Anything).Return(nil, services.ErrUsernameTaken)

	rec := serve(t, app, http.MethodPatch, "/profiles/me", dto.UpdateProfileRequest{Username: &username}, token)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfileHandler_UploadAvatar(t *testing.T) {
	profiles, uploads, app, token, identityID := setupProfileTest(t)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	url := "http://localhost:8080/storage/avatars/x.png"
	withAvatar := testProfile(identityID, false)
	withAvatar.AvatarURL = &url

	profiles.On("Sync", mock.Anything, identityID, mock.Anything).Return(testProfile(identityID, false), nil)
	uploads.On("Upload", mock.Anything, storage.BucketAvatars, identityID, png).Return(url, nil)
	profiles.On("UpdateAvatar", mock.Anything, identityID, url).Return(withAvatar, nil)

	req := httptest.NewRequest(http.MethodPost, "/profiles/me/avatar", bytes.NewReader(png))
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), url)
	uploads.AssertExpectations(t)
}

func TestProfileHandler_UploadAvatar_Rejected(t *testing.T) {
	profiles, uploads, app, token, identityID := setupProfileTest(t)

	profiles.On("Sync", mock.Anything, identityID, mock.Anything).Return(testProfile(identityID, false), nil)
	uploads.On("Upload", mock.Anything, storage.BucketAvatars, identityID, mock.Anything).Return("", storage.ErrUnsupportedType)

	req := httptest.NewRequest(http.MethodPost, "/profiles/me/avatar", bytes.NewReader([]byte("plain text")))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	profiles.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
}
