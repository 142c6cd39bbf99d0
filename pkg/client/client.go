// Package client is the Go SDK for the crowdfunding API. Client wires the
// session, profile and redirect components together so that a sign-in flows
// through to the profile and, for admins, to the admin view.
package client

import (
	"context"
	"net/http"
	"time"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
)

type Client struct {
	Auth     *TokenAuth
	Session  *SessionStore
	Profile  *ProfileSynchronizer
	Redirect *AdminRedirect
	Cache    *QueryCache
	Router   Navigator

	Campaigns    *Campaigns
	Donations    *Donations
	Testimonials *Testimonials
	Profiles     *Profiles
	Admin        *Admin
}

type options struct {
	httpClient  *http.Client
	sessionFile string
	notifier    Notifier
	navigator   Navigator
	confirm     Confirmer
	cacheTTL    time.Duration
	now         func() time.Time
}

type Option func(*options)

func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithSessionFile persists the session between runs.
func WithSessionFile(path string) Option { return func(o *options) { o.sessionFile = path } }

func WithNotifier(n Notifier) Option { return func(o *options) { o.notifier = n } }

func WithNavigator(n Navigator) Option { return func(o *options) { o.navigator = n } }

func WithConfirmer(c Confirmer) Option { return func(o *options) { o.confirm = c } }

func WithCacheTTL(ttl time.Duration) Option { return func(o *options) { o.cacheTTL = ttl } }

func New(baseURL string, opts ...Option) *Client {
	o := options{
		notifier: discardNotifier{},
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.navigator == nil {
		o.navigator = NewRouter(RouteHome)
	}

	auth := NewTokenAuth(baseURL, o.httpClient, o.sessionFile)
	api := auth.api
	queryCache := NewQueryCache(o.cacheTTL)

	c := &Client{
		Auth:   auth,
		Cache:  queryCache,
		Router: o.navigator,
	}

	c.Session = NewSessionStore(auth, queryCache, o.navigator, o.notifier)
	c.Profiles = &Profiles{api: api, session: c.Session, notify: o.notifier}
	c.Profile = NewProfileSynchronizer(c.Profiles, o.notifier)
	c.Profiles.sync = c.Profile
	c.Redirect = NewAdminRedirect(o.navigator, o.notifier)

	c.Session.Subscribe(c.Profile.SetIdentity)
	c.Profile.Subscribe(func(p *dto.ProfileResponse) { c.Redirect.Observe(p) })

	c.Campaigns = &Campaigns{api: api, cache: queryCache, session: c.Session, notify: o.notifier, nav: o.navigator, now: o.now}
	c.Donations = &Donations{api: api, cache: queryCache, session: c.Session, notify: o.notifier, nav: o.navigator}
	c.Testimonials = &Testimonials{api: api, cache: queryCache, session: c.Session, notify: o.notifier, nav: o.navigator}
	c.Admin = &Admin{api: api, cache: queryCache, session: c.Session, notify: o.notifier, confirm: o.confirm}

	return c
}

// Start resolves the persisted session. The profile loads in the background.
func (c *Client) Start(ctx context.Context) error {
	return c.Session.Start(ctx)
}

func (c *Client) Close() {
	c.Session.Close()
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	identity, err := c.Auth.SignIn(ctx, email, password)
	return identity, notifyErr(c.Session.notify, err)
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*Identity, error) {
	identity, err := c.Auth.SignUp(ctx, email, password, fullName)
	return identity, notifyErr(c.Session.notify, err)
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.Session.SignOut(ctx)
}

func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	return notifyErr(c.Session.notify, c.Auth.UpdatePassword(ctx, current, next))
}
