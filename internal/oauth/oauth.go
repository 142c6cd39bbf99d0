package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/dimitrije/crowdfund-api/internal/config"
)

// UserInfo is what a provider tells us about the person signing in.
type UserInfo struct {
	Email     string
	Name      string
	AvatarURL string
	ID        string
	Provider  string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

// Providers builds the sign-in providers that have a client id configured.
func Providers(cfg *config.Config) map[string]Provider {
	providers := make(map[string]Provider)
	if cfg.GitHub.ClientID != "" {
		p := NewGitHubProvider(cfg.GitHub)
		providers[p.Name()] = p
	}
	if cfg.Google.ClientID != "" {
		p := NewGoogleProvider(cfg.Google)
		providers[p.Name()] = p
	}
	return providers
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
