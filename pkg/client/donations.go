package client

import (
	"context"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
)

type Donations struct {
	api     *API
	cache   *QueryCache
	session IdentitySource
	notify  Notifier
	nav     Navigator
}

// Submit donates amount to a campaign. Nothing is sent without a signed-in
// identity and an amount the ledger can hold. The server updates the campaign total in
// the same transaction as the donation, so the campaign is refetched rather
// than patched locally.
func (d *Donations) Submit(ctx context.Context, campaignID uuid.UUID, amount float64) (*dto.DonationResponse, error) {
	if d.session.Identity() == nil {
		d.nav.Navigate(RouteLogin)
		return nil, notifyErr(d.notify, ErrAuthRequired)
	}
	if !dto.ValidDonationAmount(amount) {
		return nil, notifyErr(d.notify, invalid("amount", dto.DonationAmountMessage))
	}
	if campaignID == uuid.Nil {
		return nil, notifyErr(d.notify, invalid("campaign_id", "is required"))
	}

	req := dto.CreateDonationRequest{
		CampaignID:    campaignID,
		Amount:        amount,
		PaymentStatus: dto.PaymentCompleted,
	}

	var out dto.DonationResponse
	if err := d.api.post(ctx, "/donations", req, &out); err != nil {
		return nil, notifyErr(d.notify, err)
	}

	d.cache.Invalidate(campaignKey(campaignID.String()))
	d.cache.Invalidate(keyActive)
	d.cache.Invalidate(keyAdmin)
	d.notify.Notify(Notification{Level: LevelInfo, Message: "Thank you for your donation"})
	return &out, nil
}
