package handlers

import (
	"net/http"

	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/storage"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProfileHandler struct {
	profileService ProfileServiceInterface
	uploads        UploadServiceInterface
}

func NewProfileHandler(profileService ProfileServiceInterface, uploads UploadServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, uploads: uploads}
}

// GetSession returns the caller's identity and synchronized profile. A
// profile failure degrades to a null profile rather than failing the call.
func (h *ProfileHandler) GetSession(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	resp := dto.SessionResponse{
		Identity: dto.IdentityResponse{
			ID:       identityID,
			Email:    middleware.GetEmail(c),
			FullName: middleware.GetName(c),
		},
	}

	profile, err := h.profileService.Sync(c.Request.Context(), identityID, middleware.GetName(c))
	if err == nil {
		resp.Profile = toProfileResponse(profile)
	}

	_ = c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) GetMe(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	profile, err := h.profileService.Sync(c.Request.Context(), identityID, middleware.GetName(c))
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	_ = c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) UpdateMe(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profileService.Sync(ctx, identityID, middleware.GetName(c)); err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	profile, err := h.profileService.UpdateOwn(ctx, identityID, req.FullName, req.Username)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	_ = c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) UploadAvatar(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	data, err := readUpload(c)
	if err != nil {
		c.BadRequest("failed to read upload")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profileService.Sync(ctx, identityID, middleware.GetName(c)); err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	url, err := h.uploads.Upload(ctx, storage.BucketAvatars, identityID, data)
	if err != nil {
		respondError(c, err, "failed to store avatar")
		return
	}

	profile, err := h.profileService.UpdateAvatar(ctx, identityID, url)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	_ = c.JSON(http.StatusOK, toProfileResponse(profile))
}
