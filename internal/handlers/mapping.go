package handlers

import (
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
)

func toIdentityResponse(i *models.Identity) dto.IdentityResponse {
	resp := dto.IdentityResponse{ID: i.ID, Email: i.Email, Provider: i.Provider}
	if i.FullName != nil {
		resp.FullName = *i.FullName
	}
	return resp
}

func toProfileResponse(p *models.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		IsAdmin:   p.IsAdmin,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProfileResponses(profiles []models.Profile) []dto.ProfileResponse {
	out := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, *toProfileResponse(&profiles[i]))
	}
	return out
}

func toCampaignResponse(c *models.Campaign) dto.CampaignResponse {
	return dto.CampaignResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Category:       c.Category,
		GoalAmount:     c.GoalAmount,
		CurrentAmount:  c.CurrentAmount,
		Progress:       c.Progress(),
		Status:         string(c.Status),
		EndDate:        c.EndDate,
		ImageURL:       c.ImageURL,
		CreatorID:      c.CreatorID,
		CreatorName:    c.CreatorName,
		DonationsCount: c.DonationsCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toCampaignResponses(campaigns []models.Campaign) []dto.CampaignResponse {
	out := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, toCampaignResponse(&campaigns[i]))
	}
	return out
}

func toDonationResponse(d *models.Donation) dto.DonationResponse {
	return dto.DonationResponse{
		ID:            d.ID,
		CampaignID:    d.CampaignID,
		DonorID:       d.DonorID,
		Amount:        d.Amount,
		PaymentStatus: string(d.PaymentStatus),
		CampaignTitle: d.CampaignTitle,
		DonorName:     d.DonorName,
		CreatedAt:     d.CreatedAt,
	}
}

func toDonationResponses(donations []models.Donation) []dto.DonationResponse {
	out := make([]dto.DonationResponse, 0, len(donations))
	for i := range donations {
		out = append(out, toDonationResponse(&donations[i]))
	}
	return out
}

func toTestimonialResponse(t *models.Testimonial) dto.TestimonialResponse {
	return dto.TestimonialResponse{
		ID:         t.ID,
		UserID:     t.UserID,
		Content:    t.Content,
		Role:       t.Role,
		Status:     string(t.Status),
		IsFeatured: t.IsFeatured,
		AuthorName: t.AuthorName,
		CreatedAt:  t.CreatedAt,
	}
}

func toTestimonialResponses(items []models.Testimonial) []dto.TestimonialResponse {
	out := make([]dto.TestimonialResponse, 0, len(items))
	for i := range items {
		out = append(out, toTestimonialResponse(&items[i]))
	}
	return out
}
