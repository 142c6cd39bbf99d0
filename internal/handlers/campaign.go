package handlers

import (
	"net/http"

	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/internal/storage"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type CampaignHandler struct {
	campaignService CampaignServiceInterface
	donationService DonationServiceInterface
	profileService  ProfileServiceInterface
	uploads         UploadServiceInterface
}

func NewCampaignHandler(
	campaignService CampaignServiceInterface,
	donationService DonationServiceInterface,
	profileService ProfileServiceInterface,
	uploads UploadServiceInterface,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		donationService: donationService,
		profileService:  profileService,
		uploads:         uploads,
	}
}

func (h *CampaignHandler) ListActive(c *drift.Context) {
	campaigns, err := h.campaignService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list campaigns")
		return
	}

	_ = c.JSON(http.StatusOK, toCampaignResponses(campaigns))
}

// Get returns a campaign. Campaigns still under review are only visible to
// their creator and to admins.
func (h *CampaignHandler) Get(c *drift.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid campaign id")
		return
	}

	ctx := c.Request.Context()
	campaign, err := h.campaignService.GetByID(ctx, campaignID)
	if err != nil {
		respondError(c, err, "failed to load campaign")
		return
	}

	if campaign.Status != models.CampaignActive {
		viewer := middleware.GetIdentityID(c)
		if viewer == uuid.Nil {
			c.NotFound("campaign not found")
			return
		}
		if viewer != campaign.CreatorID {
			isAdmin, err := h.profileService.IsAdmin(ctx, viewer)
			if err != nil || !isAdmin {
				c.NotFound("campaign not found")
				return
			}
		}
	}

	_ = c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

func (h *CampaignHandler) Create(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profileService.Sync(ctx, identityID, middleware.GetName(c)); err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	campaign, err := h.campaignService.Create(ctx, identityID, services.CampaignInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		GoalAmount:  req.GoalAmount,
		EndDate:     req.EndDate,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err, "failed to create campaign")
		return
	}

	_ = c.JSON(http.StatusCreated, toCampaignResponse(campaign))
}

func (h *CampaignHandler) UploadImage(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid campaign id")
		return
	}

	data, err := readUpload(c)
	if err != nil {
		c.BadRequest("failed to read upload")
		return
	}

	ctx := c.Request.Context()
	campaign, err := h.campaignService.GetByID(ctx, campaignID)
	if err != nil {
		respondError(c, err, "failed to load campaign")
		return
	}

	isAdmin := false
	if campaign.CreatorID != identityID {
		isAdmin, err = h.profileService.IsAdmin(ctx, identityID)
		if err != nil {
			respondError(c, err, "failed to check permissions")
			return
		}
		if !isAdmin {
			respondError(c, services.ErrAuthorization, "")
			return
		}
	}

	url, err := h.uploads.Upload(ctx, storage.BucketCampaignImages, campaignID, data)
	if err != nil {
		respondError(c, err, "failed to store image")
		return
	}

	updated, err := h.campaignService.SetImage(ctx, campaignID, identityID, isAdmin, url)
	if err != nil {
		respondError(c, err, "failed to update campaign")
		return
	}

	_ = c.JSON(http.StatusOK, toCampaignResponse(updated))
}

func (h *CampaignHandler) ListDonations(c *drift.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid campaign id")
		return
	}

	donations, err := h.donationService.ListByCampaign(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err, "failed to list donations")
		return
	}

	_ = c.JSON(http.StatusOK, toDonationResponses(donations))
}
