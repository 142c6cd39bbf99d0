package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/oauth"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password, fullName string) (*models.Identity, error) {
	args := m.Called(ctx, email, password, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, identityID uuid.UUID, current, next string) error {
	args := m.Called(ctx, identityID, current, next)
	return args.Error(0)
}

func (m *MockAuthService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Identity, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockAuthService) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Sync(ctx context.Context, identityID uuid.UUID, fullName string) (*models.Profile, error) {
	args := m.Called(ctx, identityID, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateOwn(ctx context.Context, id uuid.UUID, fullName, username *string) (*models.Profile, error) {
	args := m.Called(ctx, id, fullName, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error) {
	args := m.Called(ctx, id, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) List(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	profiles, _ := args.Get(0).([]models.Profile)
	return profiles, args.Error(1)
}

func (m *MockProfileService) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileService) SetAdmin(ctx context.Context, actorID, targetID uuid.UUID, isAdmin bool) (*models.Profile, error) {
	args := m.Called(ctx, actorID, targetID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockCampaignService mocks the CampaignService
type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) ListActive(ctx context.Context) ([]models.Campaign, error) {
	args := m.Called(ctx)
	campaigns, _ := args.Get(0).([]models.Campaign)
	return campaigns, args.Error(1)
}

func (m *MockCampaignService) ListAll(ctx context.Context) ([]models.Campaign, error) {
	args := m.Called(ctx)
	campaigns, _ := args.Get(0).([]models.Campaign)
	return campaigns, args.Error(1)
}

func (m *MockCampaignService) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *MockCampaignService) Create(ctx context.Context, creatorID uuid.UUID, in services.CampaignInput) (*models.Campaign, error) {
	args := m.Called(ctx, creatorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *MockCampaignService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.CampaignStatus) (*models.Campaign, error) {
	args := m.Called(ctx, id, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *MockCampaignService) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	args := m.Called(ctx, id, confirmed)
	return args.Error(0)
}

func (m *MockCampaignService) SetImage(ctx context.Context, id, actorID uuid.UUID, actorIsAdmin bool, imageURL string) (*models.Campaign, error) {
	args := m.Called(ctx, id, actorID, actorIsAdmin, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

// MockDonationService mocks the DonationService
type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) Submit(ctx context.Context, donorID, campaignID uuid.UUID, amount float64, status models.PaymentStatus) (*models.Donation, error) {
	args := m.Called(ctx, donorID, campaignID, amount, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationService) Complete(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationService) ListRecent(ctx context.Context) ([]models.Donation, error) {
	args := m.Called(ctx)
	donations, _ := args.Get(0).([]models.Donation)
	return donations, args.Error(1)
}

func (m *MockDonationService) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Donation, error) {
	args := m.Called(ctx, campaignID)
	donations, _ := args.Get(0).([]models.Donation)
	return donations, args.Error(1)
}

// MockTestimonialService mocks the TestimonialService
type MockTestimonialService struct {
	mock.Mock
}

func (m *MockTestimonialService) Create(ctx context.Context, userID uuid.UUID, content string, role *string) (*models.Testimonial, error) {
	args := m.Called(ctx, userID, content, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Testimonial), args.Error(1)
}

func (m *MockTestimonialService) ListFeatured(ctx context.Context) ([]models.Testimonial, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Testimonial)
	return items, args.Error(1)
}

func (m *MockTestimonialService) ListAll(ctx context.Context) ([]models.Testimonial, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Testimonial)
	return items, args.Error(1)
}

func (m *MockTestimonialService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.TestimonialStatus) (*models.Testimonial, error) {
	args := m.Called(ctx, id, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Testimonial), args.Error(1)
}

func (m *MockTestimonialService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Testimonial, error) {
	args := m.Called(ctx, id, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Testimonial), args.Error(1)
}

// MockStatsService mocks the StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

// MockUploadService mocks storage.Service
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, bucket string, owner uuid.UUID, data []byte) (string, error) {
	args := m.Called(ctx, bucket, owner, data)
	return args.String(0), args.Error(1)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockEmailService) SendCampaignDecision(to, campaignTitle string, status models.CampaignStatus, campaignURL string) error {
	args := m.Called(to, campaignTitle, status, campaignURL)
	return args.Error(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, identityID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, identityID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllIdentityTokens(ctx context.Context, identityID uuid.UUID) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(identityID uuid.UUID, email, name string) (*services.TokenPair, error) {
	args := m.Called(identityID, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(tokenString string) (uuid.UUID, error) {
	args := m.Called(tokenString)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
