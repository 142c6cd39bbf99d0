package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) campaigns() *Campaigns {
	return &Campaigns{api: f.api, cache: f.cache, session: f.who, notify: f.notes, nav: f.router, now: time.Now}
}

func validInput() CampaignInput {
	return CampaignInput{
		Title:       "Clean water",
		Description: "Wells for the valley",
		Category:    "community",
		GoalAmount:  5000,
		EndDate:     time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCampaigns_CreateValidatesBeforeRequest(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/campaigns": func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusInternalServerError, "unexpected")
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})

	tests := map[string]func(*CampaignInput){
		"blank title":    func(in *CampaignInput) { in.Title = "  " },
		"blank category": func(in *CampaignInput) { in.Category = "" },
		"zero goal":      func(in *CampaignInput) { in.GoalAmount = 0 },
		"past end date":  func(in *CampaignInput) { in.EndDate = time.Now().Add(-time.Hour) },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)

			_, err := f.campaigns().Create(context.Background(), in)

			assert.True(t, IsValidation(err))
		})
	}
	assert.Equal(t, 0, srv.total())
}

func TestCampaigns_CreateNeverSendsStatus(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/campaigns": func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var raw map[string]any
			require.NoError(t, json.Unmarshal(body, &raw))
			assert.NotContains(t, raw, "status")

			writeJSON(w, http.StatusCreated, dto.CampaignResponse{ID: uuid.New(), Title: raw["title"].(string), Status: dto.CampaignPending})
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})
	f.cache.Set(keyActive, "stale")

	created, err := f.campaigns().Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, dto.CampaignPending, created.Status)
	assert.Equal(t, 0, f.cache.Len())
}

func TestCampaigns_CreateWithImage(t *testing.T) {
	id := uuid.New()
	png := []byte("\x89PNG\r\n\x1a\n0000")
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/campaigns": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, dto.CampaignResponse{ID: id, Status: dto.CampaignPending})
		},
		"POST /api/v1/campaigns/{id}/image": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, id.String(), r.PathValue("id"))
			assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
			writeJSON(w, http.StatusOK, dto.CampaignResponse{ID: id, Status: dto.CampaignPending, ImageURL: ptr("http://cdn/img.png")})
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})

	in := validInput()
	in.Image = png
	created, err := f.campaigns().Create(context.Background(), in)

	require.NoError(t, err)
	require.NotNil(t, created.ImageURL)
	assert.Equal(t, "http://cdn/img.png", *created.ImageURL)
}

func TestCampaigns_ListActiveIsCached(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/campaigns": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []dto.CampaignResponse{{ID: uuid.New(), Status: dto.CampaignActive}})
		},
	})
	f := newFixture(srv, nil)

	for i := 0; i < 3; i++ {
		list, err := f.campaigns().ListActive(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}
	assert.Equal(t, 1, srv.count("GET /api/v1/campaigns"))

	f.cache.Invalidate(keyCampaigns)
	_, err := f.campaigns().ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, srv.count("GET /api/v1/campaigns"))
}

func TestCampaigns_RefetchAfterDonationShowsNewTotal(t *testing.T) {
	id := uuid.New()
	current := 1000.0
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/campaigns/{id}": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, dto.CampaignResponse{
				ID: id, GoalAmount: 5000, CurrentAmount: current, Progress: current / 5000 * 100,
			})
		},
		donatePattern: func(w http.ResponseWriter, r *http.Request) {
			var req dto.CreateDonationRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			current += req.Amount
			writeJSON(w, http.StatusCreated, dto.DonationResponse{ID: uuid.New(), CampaignID: id, Amount: req.Amount})
		},
	})
	f := newFixture(srv, &Identity{ID: uuid.New()})

	before, err := f.campaigns().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, before.CurrentAmount)

	_, err = f.donations().Submit(context.Background(), id, 250)
	require.NoError(t, err)

	after, err := f.campaigns().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1250.0, after.CurrentAmount)
	assert.Equal(t, 25.0, after.Progress)
}

func TestCampaigns_GetNotFound(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/campaigns/{id}": func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "campaign not found")
		},
	})
	f := newFixture(srv, nil)

	_, err := f.campaigns().Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, f.notes.messages(LevelError), 1)
}
