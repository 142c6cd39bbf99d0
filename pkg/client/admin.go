package client

import (
	"context"
	"fmt"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
)

// Confirmer asks the user to confirm an irreversible action.
type Confirmer func(prompt string) bool

// Admin is the review dashboard. The server decides who may use it; any
// rejection comes back as ErrAuthorization and is reported, never dropped.
type Admin struct {
	api     *API
	cache   *QueryCache
	session IdentitySource
	notify  Notifier
	confirm Confirmer
}

func (a *Admin) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	out, err := cached(a.cache, keyAdmin+"stats", func() (*dto.DashboardStatsResponse, error) {
		var out dto.DashboardStatsResponse
		if err := a.api.get(ctx, "/admin/stats", &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	return out, notifyErr(a.notify, err)
}

func (a *Admin) Campaigns(ctx context.Context) ([]dto.CampaignResponse, error) {
	return adminList[dto.CampaignResponse](ctx, a, "campaigns")
}

// RecentDonations returns the ten most recent donations.
func (a *Admin) RecentDonations(ctx context.Context) ([]dto.DonationResponse, error) {
	return adminList[dto.DonationResponse](ctx, a, "donations")
}

func (a *Admin) Testimonials(ctx context.Context) ([]dto.TestimonialResponse, error) {
	return adminList[dto.TestimonialResponse](ctx, a, "testimonials")
}

func (a *Admin) Profiles(ctx context.Context) ([]dto.ProfileResponse, error) {
	return adminList[dto.ProfileResponse](ctx, a, "profiles")
}

func (a *Admin) ApproveCampaign(ctx context.Context, id uuid.UUID) (*dto.CampaignResponse, error) {
	return a.setCampaignStatus(ctx, id, dto.CampaignActive)
}

func (a *Admin) RejectCampaign(ctx context.Context, id uuid.UUID) (*dto.CampaignResponse, error) {
	return a.setCampaignStatus(ctx, id, dto.CampaignRejected)
}

func (a *Admin) setCampaignStatus(ctx context.Context, id uuid.UUID, status string) (*dto.CampaignResponse, error) {
	var out dto.CampaignResponse
	path := fmt.Sprintf("/admin/campaigns/%s/status", id)
	if err := a.api.patch(ctx, path, dto.UpdateStatusRequest{Status: status}, &out); err != nil {
		return nil, notifyErr(a.notify, err)
	}
	a.invalidateCampaigns(id)
	a.notify.Notify(Notification{Level: LevelInfo, Message: "Campaign " + status})
	return &out, nil
}

// DeleteCampaign asks for confirmation before anything is sent. Declining
// returns ErrCancelled.
func (a *Admin) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	if a.confirm == nil || !a.confirm("Delete this campaign? This cannot be undone.") {
		return ErrCancelled
	}

	if err := a.api.delete(ctx, fmt.Sprintf("/admin/campaigns/%s?confirm=true", id), nil); err != nil {
		return notifyErr(a.notify, err)
	}
	a.invalidateCampaigns(id)
	a.notify.Notify(Notification{Level: LevelInfo, Message: "Campaign deleted"})
	return nil
}

func (a *Admin) CompleteDonation(ctx context.Context, id uuid.UUID) (*dto.DonationResponse, error) {
	var out dto.DonationResponse
	if err := a.api.post(ctx, fmt.Sprintf("/admin/donations/%s/complete", id), nil, &out); err != nil {
		return nil, notifyErr(a.notify, err)
	}
	a.invalidateCampaigns(out.CampaignID)
	return &out, nil
}

func (a *Admin) ApproveTestimonial(ctx context.Context, id uuid.UUID) (*dto.TestimonialResponse, error) {
	return a.setTestimonialStatus(ctx, id, dto.TestimonialApproved)
}

func (a *Admin) RejectTestimonial(ctx context.Context, id uuid.UUID) (*dto.TestimonialResponse, error) {
	return a.setTestimonialStatus(ctx, id, dto.TestimonialRejected)
}

func (a *Admin) setTestimonialStatus(ctx context.Context, id uuid.UUID, status string) (*dto.TestimonialResponse, error) {
	var out dto.TestimonialResponse
	path := fmt.Sprintf("/admin/testimonials/%s/status", id)
	if err := a.api.patch(ctx, path, dto.UpdateStatusRequest{Status: status}, &out); err != nil {
		return nil, notifyErr(a.notify, err)
	}
	a.cache.Invalidate(keyTestimonials)
	a.cache.Invalidate(keyAdmin)
	return &out, nil
}

func (a *Admin) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*dto.TestimonialResponse, error) {
	var out dto.TestimonialResponse
	path := fmt.Sprintf("/admin/testimonials/%s/featured", id)
	if err := a.api.patch(ctx, path, dto.SetFeaturedRequest{IsFeatured: featured}, &out); err != nil {
		return nil, notifyErr(a.notify, err)
	}
	a.cache.Invalidate(keyTestimonials)
	a.cache.Invalidate(keyAdmin)
	return &out, nil
}

// SetAdmin toggles is_admin on another user's profile.
func (a *Admin) SetAdmin(ctx context.Context, profileID uuid.UUID, isAdmin bool) (*dto.ProfileResponse, error) {
	if self := a.session.Identity(); self != nil && self.ID == profileID {
		return nil, notifyErr(a.notify, invalid("id", "cannot change your own admin status"))
	}

	var out dto.ProfileResponse
	path := fmt.Sprintf("/admin/profiles/%s/admin", profileID)
	if err := a.api.patch(ctx, path, dto.SetAdminRequest{IsAdmin: isAdmin}, &out); err != nil {
		return nil, notifyErr(a.notify, err)
	}
	a.cache.Invalidate(keyAdmin)
	return &out, nil
}

func (a *Admin) invalidateCampaigns(id uuid.UUID) {
	a.cache.Invalidate(campaignKey(id.String()))
	a.cache.Invalidate(keyActive)
	a.cache.Invalidate(keyAdmin)
}

func adminList[T any](ctx context.Context, a *Admin, resource string) ([]T, error) {
	out, err := cached(a.cache, keyAdmin+resource, func() ([]T, error) {
		var out []T
		err := a.api.get(ctx, "/admin/"+resource, &out)
		return out, err
	})
	return out, notifyErr(a.notify, err)
}
