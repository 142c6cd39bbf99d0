package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/oauth"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	SignUp(ctx context.Context, email, password, fullName string) (*models.Identity, error)
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	UpdatePassword(ctx context.Context, identityID uuid.UUID, current, next string) error
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
}

type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, identityID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllIdentityTokens(ctx context.Context, identityID uuid.UUID) error
}

type JWTServiceInterface interface {
	GenerateTokenPair(identityID uuid.UUID, email, name string) (*services.TokenPair, error)
	ValidateRefreshToken(tokenString string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

type ProfileServiceInterface interface {
	Sync(ctx context.Context, identityID uuid.UUID, fullName string) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateOwn(ctx context.Context, id uuid.UUID, fullName, username *string) (*models.Profile, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
	SetAdmin(ctx context.Context, actorID, targetID uuid.UUID, isAdmin bool) (*models.Profile, error)
}

type CampaignServiceInterface interface {
	ListActive(ctx context.Context) ([]models.Campaign, error)
	ListAll(ctx context.Context) ([]models.Campaign, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	Create(ctx context.Context, creatorID uuid.UUID, in services.CampaignInput) (*models.Campaign, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next models.CampaignStatus) (*models.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
	SetImage(ctx context.Context, id, actorID uuid.UUID, actorIsAdmin bool, imageURL string) (*models.Campaign, error)
}

type DonationServiceInterface interface {
	Submit(ctx context.Context, donorID, campaignID uuid.UUID, amount float64, status models.PaymentStatus) (*models.Donation, error)
	Complete(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	ListRecent(ctx context.Context) ([]models.Donation, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Donation, error)
}

type TestimonialServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, content string, role *string) (*models.Testimonial, error)
	ListFeatured(ctx context.Context) ([]models.Testimonial, error)
	ListAll(ctx context.Context) ([]models.Testimonial, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next models.TestimonialStatus) (*models.Testimonial, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Testimonial, error)
}

type StatsServiceInterface interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type UploadServiceInterface interface {
	Upload(ctx context.Context, bucket string, owner uuid.UUID, data []byte) (string, error)
}

type EmailServiceInterface interface {
	IsConfigured() bool
	SendCampaignDecision(to, campaignTitle string, status models.CampaignStatus, campaignURL string) error
}
