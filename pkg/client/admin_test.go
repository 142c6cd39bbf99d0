package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) admin(confirm Confirmer) *Admin {
	return &Admin{api: f.api, cache: f.cache, session: f.who, notify: f.notes, confirm: confirm}
}

func TestAdmin_DeleteCampaignNeedsConfirmation(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"DELETE /api/v1/admin/campaigns/{id}": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("confirm"))
			writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "campaign deleted"})
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})

	err := f.admin(func(string) bool { return false }).DeleteCampaign(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCancelled)

	err = f.admin(nil).DeleteCampaign(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 0, srv.total())

	var prompt string
	err = f.admin(func(p string) bool { prompt = p; return true }).DeleteCampaign(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Equal(t, 1, srv.total())
}

func TestAdmin_RejectedWriteIsSurfaced(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"PATCH /api/v1/admin/campaigns/{id}/status": func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusForbidden, "admin access required")
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})

	_, err := f.admin(nil).ApproveCampaign(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrAuthorization)
	require.Len(t, f.notes.messages(LevelError), 1)
	assert.Contains(t, f.notes.messages(LevelError)[0], "admin access required")
}

func TestAdmin_StatusTransitionsSendStatus(t *testing.T) {
	var sent []string
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"PATCH /api/v1/admin/campaigns/{id}/status": func(w http.ResponseWriter, r *http.Request) {
			var req dto.UpdateStatusRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			sent = append(sent, req.Status)
			writeJSON(w, http.StatusOK, dto.CampaignResponse{Status: req.Status})
		},
		"PATCH /api/v1/admin/testimonials/{id}/status": func(w http.ResponseWriter, r *http.Request) {
			var req dto.UpdateStatusRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			sent = append(sent, req.Status)
			writeJSON(w, http.StatusOK, dto.TestimonialResponse{Status: req.Status})
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})
	a := f.admin(nil)
	ctx := context.Background()

	_, err := a.ApproveCampaign(ctx, uuid.New())
	require.NoError(t, err)
	_, err = a.RejectCampaign(ctx, uuid.New())
	require.NoError(t, err)
	_, err = a.ApproveTestimonial(ctx, uuid.New())
	require.NoError(t, err)
	_, err = a.RejectTestimonial(ctx, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, []string{
		dto.CampaignActive, dto.CampaignRejected, dto.TestimonialApproved, dto.TestimonialRejected,
	}, sent)
}

func TestAdmin_SetAdminOnSelfIsRejectedLocally(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{})
	self := uuid.New()
	f := newFixture(srv, &Identity{ID: self})

	_, err := f.admin(nil).SetAdmin(context.Background(), self, false)

	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, srv.total())
}

func TestAdmin_RecentDonations(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/admin/donations": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []dto.DonationResponse{{ID: uuid.New(), Amount: 10}})
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})

	list, err := f.admin(nil).RecentDonations(context.Background())

	require.NoError(t, err)
	assert.Len(t, list, 1)
}
