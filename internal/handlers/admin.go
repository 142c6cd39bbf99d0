package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

// AdminHandler serves the review dashboard. Every route sits behind
// middleware.RequireAdmin.
type AdminHandler struct {
	campaignService    CampaignServiceInterface
	donationService    DonationServiceInterface
	testimonialService TestimonialServiceInterface
	profileService     ProfileServiceInterface
	statsService       StatsServiceInterface
	authService        AuthServiceInterface
	emailService       EmailServiceInterface
	frontendURL        string
}

func NewAdminHandler(
	campaignService CampaignServiceInterface,
	donationService DonationServiceInterface,
	testimonialService TestimonialServiceInterface,
	profileService ProfileServiceInterface,
	statsService StatsServiceInterface,
	authService AuthServiceInterface,
	emailService EmailServiceInterface,
	frontendURL string,
) *AdminHandler {
	return &AdminHandler{
		campaignService:    campaignService,
		donationService:    donationService,
		testimonialService: testimonialService,
		profileService:     profileService,
		statsService:       statsService,
		authService:        authService,
		emailService:       emailService,
		frontendURL:        strings.TrimRight(frontendURL, "/"),
	}
}

func parseID(c *drift.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid " + what + " id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) Stats(c *drift.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load stats")
		return
	}

	_ = c.JSON(http.StatusOK, dto.DashboardStatsResponse{
		TotalRaised:      stats.TotalRaised,
		ActiveCampaigns:  stats.ActiveCampaigns,
		PendingCampaigns: stats.PendingCampaigns,
	})
}

func (h *AdminHandler) ListCampaigns(c *drift.Context) {
	campaigns, err := h.campaignService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list campaigns")
		return
	}

	_ = c.JSON(http.StatusOK, toCampaignResponses(campaigns))
}

func (h *AdminHandler) UpdateCampaignStatus(c *drift.Context) {
	campaignID, ok := parseID(c, "campaign")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	campaign, err := h.campaignService.UpdateStatus(c.Request.Context(), campaignID, models.CampaignStatus(req.Status))
	if err != nil {
		respondError(c, err, "failed to update campaign")
		return
	}

	h.notifyCreator(c, campaign)

	_ = c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// notifyCreator mails the campaign creator about the review outcome. It is
// best effort: identities without a local account and mail failures are
// skipped.
func (h *AdminHandler) notifyCreator(c *drift.Context, campaign *models.Campaign) {
	if h.emailService == nil || !h.emailService.IsConfigured() {
		return
	}

	ctx := c.Request.Context()
	creator, err := h.authService.GetByID(ctx, campaign.CreatorID)
	if err != nil {
		return
	}

	link := fmt.Sprintf("%s/campaigns/%s", h.frontendURL, campaign.ID)
	if err := h.emailService.SendCampaignDecision(creator.Email, campaign.Title, campaign.Status, link); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("campaign_id", campaign.ID.String()).Msg("campaign decision email failed")
	}
}

// DeleteCampaign is irreversible and only proceeds with ?confirm=true.
func (h *AdminHandler) DeleteCampaign(c *drift.Context) {
	campaignID, ok := parseID(c, "campaign")
	if !ok {
		return
	}

	confirmed := c.QueryParam("confirm") == "true"
	if err := h.campaignService.Delete(c.Request.Context(), campaignID, confirmed); err != nil {
		respondError(c, err, "failed to delete campaign")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "campaign deleted"})
}

func (h *AdminHandler) ListRecentDonations(c *drift.Context) {
	donations, err := h.donationService.ListRecent(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list donations")
		return
	}

	_ = c.JSON(http.StatusOK, toDonationResponses(donations))
}

func (h *AdminHandler) CompleteDonation(c *drift.Context) {
	donationID, ok := parseID(c, "donation")
	if !ok {
		return
	}

	donation, err := h.donationService.Complete(c.Request.Context(), donationID)
	if err != nil {
		respondError(c, err, "failed to complete donation")
		return
	}

	_ = c.JSON(http.StatusOK, toDonationResponse(donation))
}

func (h *AdminHandler) ListTestimonials(c *drift.Context) {
	items, err := h.testimonialService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list testimonials")
		return
	}

	_ = c.JSON(http.StatusOK, toTestimonialResponses(items))
}

func (h *AdminHandler) UpdateTestimonialStatus(c *drift.Context) {
	testimonialID, ok := parseID(c, "testimonial")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	item, err := h.testimonialService.UpdateStatus(c.Request.Context(), testimonialID, models.TestimonialStatus(req.Status))
	if err != nil {
		respondError(c, err, "failed to update testimonial")
		return
	}

	_ = c.JSON(http.StatusOK, toTestimonialResponse(item))
}

func (h *AdminHandler) SetTestimonialFeatured(c *drift.Context) {
	testimonialID, ok := parseID(c, "testimonial")
	if !ok {
		return
	}

	var req dto.SetFeaturedRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	item, err := h.testimonialService.SetFeatured(c.Request.Context(), testimonialID, req.IsFeatured)
	if err != nil {
		respondError(c, err, "failed to update testimonial")
		return
	}

	_ = c.JSON(http.StatusOK, toTestimonialResponse(item))
}

func (h *AdminHandler) ListProfiles(c *drift.Context) {
	profiles, err := h.profileService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list profiles")
		return
	}

	_ = c.JSON(http.StatusOK, toProfileResponses(profiles))
}

// SetProfileAdmin toggles is_admin on another profile. Changing your own
// flag is refused by the service.
func (h *AdminHandler) SetProfileAdmin(c *drift.Context) {
	targetID, ok := parseID(c, "profile")
	if !ok {
		return
	}

	var req dto.SetAdminRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	profile, err := h.profileService.SetAdmin(c.Request.Context(), middleware.GetIdentityID(c), targetID, req.IsAdmin)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	_ = c.JSON(http.StatusOK, toProfileResponse(profile))
}
