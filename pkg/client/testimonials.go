package client

import (
	"context"
	"strings"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
)

type Testimonials struct {
	api     *API
	cache   *QueryCache
	session IdentitySource
	notify  Notifier
	nav     Navigator
}

// Featured returns approved, featured testimonials.
func (t *Testimonials) Featured(ctx context.Context) ([]dto.TestimonialResponse, error) {
	out, err := cached(t.cache, keyFeatured, func() ([]dto.TestimonialResponse, error) {
		var out []dto.TestimonialResponse
		err := t.api.get(ctx, "/testimonials", &out)
		return out, err
	})
	return out, notifyErr(t.notify, err)
}

// Submit sends a testimonial for moderation.
func (t *Testimonials) Submit(ctx context.Context, content, role string) (*dto.TestimonialResponse, error) {
	if t.session.Identity() == nil {
		t.nav.Navigate(RouteLogin)
		return nil, notifyErr(t.notify, ErrAuthRequired)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, notifyErr(t.notify, invalid("content", "is required"))
	}

	req := dto.CreateTestimonialRequest{Content: content}
	if role = strings.TrimSpace(role); role != "" {
		req.Role = &role
	}

	var out dto.TestimonialResponse
	if err := t.api.post(ctx, "/testimonials", req, &out); err != nil {
		return nil, notifyErr(t.notify, err)
	}
	t.cache.Invalidate(keyAdmin)
	t.notify.Notify(Notification{Level: LevelInfo, Message: "Thanks! Your testimonial is awaiting review"})
	return &out, nil
}
