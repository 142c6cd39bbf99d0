package middleware

import (
	"context"
	"strings"

	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	IdentityIDKey = "identity_id"
	EmailKey      = "email"
	NameKey       = "name"
)

// Principal is the verified subject of a bearer token.
type Principal struct {
	IdentityID uuid.UUID
	Email      string
	Name       string
}

// TokenVerifier turns a raw bearer token into a Principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

type accessTokenValidator interface {
	ValidateAccessToken(tokenString string) (*services.Claims, error)
}

// JWTVerifier accepts access tokens issued by this service.
type JWTVerifier struct {
	jwt accessTokenValidator
}

func NewJWTVerifier(jwt accessTokenValidator) *JWTVerifier {
	return &JWTVerifier{jwt: jwt}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Principal, error) {
	claims, err := v.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &Principal{IdentityID: claims.IdentityID, Email: claims.Email, Name: claims.Name}, nil
}

func bearerToken(c *drift.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid authorization header format"
	}
	return strings.TrimSpace(parts[1]), ""
}

func Auth(verifier TokenVerifier) drift.HandlerFunc {
	return func(c *drift.Context) {
		token, problem := bearerToken(c)
		if problem != "" {
			c.Unauthorized(problem)
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil || principal.IdentityID == uuid.Nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(verifier TokenVerifier) drift.HandlerFunc {
	return func(c *drift.Context) {
		if token, problem := bearerToken(c); problem == "" {
			if principal, err := verifier.Verify(c.Request.Context(), token); err == nil && principal.IdentityID != uuid.Nil {
				setPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

func setPrincipal(c *drift.Context, p *Principal) {
	c.Set(IdentityIDKey, p.IdentityID)
	c.Set(EmailKey, p.Email)
	c.Set(NameKey, p.Name)
}

func GetIdentityID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(IdentityIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetEmail(c *drift.Context) string {
	return getString(c, EmailKey)
}

func GetName(c *drift.Context) string {
	return getString(c, NameKey)
}

func getString(c *drift.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
