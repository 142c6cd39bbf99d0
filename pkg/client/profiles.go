package client

import (
	"context"
	"strings"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
)

// Profiles edits the signed-in user's own profile.
type Profiles struct {
	api     *API
	session IdentitySource
	sync    *ProfileSynchronizer
	notify  Notifier
}

// Session fetches the identity and its profile, creating the profile if
// it does not exist yet.
func (p *Profiles) Session(ctx context.Context) (*dto.SessionResponse, error) {
	var out dto.SessionResponse
	if err := p.api.get(ctx, "/session", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes the name and username. Nil fields are left alone.
func (p *Profiles) Update(ctx context.Context, fullName, username *string) (*dto.ProfileResponse, error) {
	if p.session.Identity() == nil {
		return nil, notifyErr(p.notify, ErrAuthRequired)
	}
	if username != nil {
		trimmed := strings.TrimSpace(*username)
		if trimmed == "" {
			return nil, notifyErr(p.notify, invalid("username", "cannot be blank"))
		}
		username = &trimmed
	}

	var out dto.ProfileResponse
	req := dto.UpdateProfileRequest{FullName: fullName, Username: username}
	if err := p.api.patch(ctx, "/profiles/me", req, &out); err != nil {
		return nil, notifyErr(p.notify, err)
	}
	p.sync.Reload()
	p.notify.Notify(Notification{Level: LevelInfo, Message: "Profile updated"})
	return &out, nil
}

func (p *Profiles) UploadAvatar(ctx context.Context, image []byte) (*dto.ProfileResponse, error) {
	if p.session.Identity() == nil {
		return nil, notifyErr(p.notify, ErrAuthRequired)
	}
	if len(image) == 0 {
		return nil, notifyErr(p.notify, invalid("avatar", "is empty"))
	}

	var out dto.ProfileResponse
	if err := p.api.upload(ctx, "/profiles/me/avatar", image, &out); err != nil {
		return nil, notifyErr(p.notify, err)
	}
	p.sync.Reload()
	return &out, nil
}
