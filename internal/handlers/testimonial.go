package handlers

import (
	"net/http"

	"github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TestimonialHandler struct {
	testimonialService TestimonialServiceInterface
	profileService     ProfileServiceInterface
}

func NewTestimonialHandler(testimonialService TestimonialServiceInterface, profileService ProfileServiceInterface) *TestimonialHandler {
	return &TestimonialHandler{testimonialService: testimonialService, profileService: profileService}
}

func (h *TestimonialHandler) ListFeatured(c *drift.Context) {
	items, err := h.testimonialService.ListFeatured(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list testimonials")
		return
	}

	_ = c.JSON(http.StatusOK, toTestimonialResponses(items))
}

func (h *TestimonialHandler) Create(c *drift.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTestimonialRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.profileService.Sync(ctx, identityID, middleware.GetName(c)); err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	item, err := h.testimonialService.Create(ctx, identityID, req.Content, req.Role)
	if err != nil {
		respondError(c, err, "failed to submit testimonial")
		return
	}

	_ = c.JSON(http.StatusCreated, toTestimonialResponse(item))
}
