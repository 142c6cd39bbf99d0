package client

import (
	"sync"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
)

const welcomeAdmin = "Welcome, admin"

// AdminRedirect moves the view to the admin route when a profile becomes an
// admin. It fires on the transition only, so an admin who navigates away is
// not pulled back.
type AdminRedirect struct {
	nav    Navigator
	notify Notifier

	mu        sync.Mutex
	prevID    uuid.UUID
	prevAdmin bool
}

func NewAdminRedirect(nav Navigator, notify Notifier) *AdminRedirect {
	if notify == nil {
		notify = discardNotifier{}
	}
	return &AdminRedirect{nav: nav, notify: notify}
}

// Observe reports whether it navigated.
func (r *AdminRedirect) Observe(profile *dto.ProfileResponse) bool {
	admin := profile != nil && profile.IsAdmin
	id := uuid.Nil
	if profile != nil {
		id = profile.ID
	}

	r.mu.Lock()
	granted := admin && (!r.prevAdmin || id != r.prevID)
	r.prevAdmin = admin
	r.prevID = id
	r.mu.Unlock()

	if !granted || r.nav.Current() == RouteAdmin {
		return false
	}

	r.nav.Navigate(RouteAdmin)
	r.notify.Notify(Notification{Level: LevelInfo, Message: welcomeAdmin})
	return true
}
