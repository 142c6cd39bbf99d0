package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/config"
	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/oauth"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	cfg            *config.Config
	providers      map[string]oauth.Provider
	authService    AuthServiceInterface
	profileService ProfileServiceInterface
	tokenService   TokenServiceInterface
	jwtService     JWTServiceInterface
	states         sync.Map
	authCodes      sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	identityID uuid.UUID
	expiresAt  time.Time
}

func NewAuthHandler(
	ctx context.Context,
	cfg *config.Config,
	authService AuthServiceInterface,
	profileService ProfileServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
) *AuthHandler {
	h := &AuthHandler{
		cfg:            cfg,
		providers:      oauth.Providers(cfg),
		authService:    authService,
		profileService: profileService,
		tokenService:   tokenService,
		jwtService:     jwtService,
	}

	go h.cleanupStates(ctx)

	return h
}

func (h *AuthHandler) cleanupStates(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.purgeExpired(time.Now())
		}
	}
}

func (h *AuthHandler) purgeExpired(now time.Time) {
	h.states.Range(func(key, value interface{}) bool {
		if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
			h.states.Delete(key)
		}
		return true
	})
	h.authCodes.Range(func(key, value interface{}) bool {
		if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
			h.authCodes.Delete(key)
		}
		return true
	})
}

func (h *AuthHandler) SignUp(c *drift.Context) {
	var req dto.SignUpRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()
	identity, err := h.authService.SignUp(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, err, "failed to sign up")
		return
	}

	// The session endpoint retries the profile, so a failure here is not fatal.
	if _, err := h.profileService.Sync(ctx, identity.ID, req.FullName); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("identity_id", identity.ID.String()).Msg("profile sync after sign-up failed")
	}

	h.respondWithTokens(c, identity, http.StatusCreated)
}

func (h *AuthHandler) SignIn(c *drift.Context) {
	var req dto.SignInRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	identity, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "failed to sign in")
		return
	}

	h.respondWithTokens(c, identity, http.StatusOK)
}

func (h *AuthHandler) UpdatePassword(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), identityID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "failed to update password")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "password updated"})
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	_ = c.JSON(http.StatusOK, dto.ConsentURLResponse{
		URL: p.GetConsentURL(state),
	})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		h.redirectWithError(c, "unsupported provider")
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.redirectWithError(c, "missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.redirectWithError(c, "invalid or expired state")
		return
	}

	sdTyped, ok := sd.(stateData)
	if !ok || time.Now().After(sdTyped.expiresAt) {
		h.redirectWithError(c, "state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectWithError(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		h.redirectWithError(c, "failed to exchange code: "+err.Error())
		return
	}

	identity, err := h.authService.FindOrCreateFromOAuth(ctx, userInfo)
	if err != nil {
		h.redirectWithError(c, "failed to create identity")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.redirectWithError(c, "failed to generate auth code")
		return
	}

	h.authCodes.Store(authCode, authCodeData{
		identityID: identity.ID,
		expiresAt:  time.Now().Add(30 * time.Second),
	})

	h.redirect(c, fmt.Sprintf("%s?code=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(authCode)))
}

func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}

	codeData, ok := acd.(authCodeData)
	if !ok || time.Now().After(codeData.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	identity, err := h.authService.GetByID(c.Request.Context(), codeData.identityID)
	if err != nil {
		c.Unauthorized("identity not found")
		return
	}

	h.respondWithTokens(c, identity, http.StatusOK)
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	identityID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	tokenHash := services.HashToken(req.RefreshToken)
	ctx := c.Request.Context()

	storedID, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil || storedID != identityID {
		c.Unauthorized("refresh token not found or expired")
		return
	}

	identity, err := h.authService.GetByID(ctx, identityID)
	if err != nil {
		c.Unauthorized("identity not found")
		return
	}

	if err := h.tokenService.RevokeRefreshToken(ctx, tokenHash); err != nil {
		c.InternalServerError("failed to revoke old token")
		return
	}

	h.respondWithTokens(c, identity, http.StatusOK)
}

// Logout revokes one session. A failed revocation is reported so the client
// keeps its local session instead of assuming it is gone.
func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		tokenHash := services.HashToken(req.RefreshToken)
		if err := h.tokenService.RevokeRefreshToken(c.Request.Context(), tokenHash); err != nil {
			c.InternalServerError("failed to revoke session")
			return
		}
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokenService.RevokeAllIdentityTokens(c.Request.Context(), identityID); err != nil {
		c.InternalServerError("failed to revoke tokens")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "all sessions logged out"})
}

func (h *AuthHandler) respondWithTokens(c *drift.Context, identity *models.Identity, status int) {
	name := ""
	if identity.FullName != nil {
		name = *identity.FullName
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(identity.ID, identity.Email, name)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	tokenHash := services.HashToken(tokenPair.RefreshToken)
	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(c.Request.Context(), identity.ID, tokenHash, expiresAt); err != nil {
		c.InternalServerError("failed to store refresh token")
		return
	}

	_ = c.JSON(status, dto.AuthResponse{
		Identity: toIdentityResponse(identity),
		TokenResponse: dto.TokenResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			ExpiresIn:    tokenPair.ExpiresIn,
		},
	})
}

func (h *AuthHandler) redirectWithError(c *drift.Context, errMsg string) {
	h.redirect(c, fmt.Sprintf("%s?error=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(errMsg)))
}

func (h *AuthHandler) redirect(c *drift.Context, location string) {
	c.Response.Header().Set("Location", location)
	c.Response.WriteHeader(http.StatusFound)
	c.Abort()
}
