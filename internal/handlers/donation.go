package handlers

import (
	"net/http"

	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type DonationHandler struct {
	donationService DonationServiceInterface
	profileService  ProfileServiceInterface
}

func NewDonationHandler(donationService DonationServiceInterface, profileService ProfileServiceInterface) *DonationHandler {
	return &DonationHandler{donationService: donationService, profileService: profileService}
}

func (h *DonationHandler) Submit(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("sign-in required")
		return
	}

	var req dto.CreateDonationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.CampaignID == uuid.Nil {
		c.BadRequest("campaign_id is required")
		return
	}
	if !dto.ValidDonationAmount(req.Amount) {
		c.BadRequest("amount: " + dto.DonationAmountMessage)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profileService.Sync(ctx, identityID, middleware.GetName(c)); err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	donation, err := h.donationService.Submit(ctx, identityID, req.CampaignID, req.Amount, models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		respondError(c, err, "failed to submit donation")
		return
	}

	_ = c.JSON(http.StatusCreated, toDonationResponse(donation))
}
