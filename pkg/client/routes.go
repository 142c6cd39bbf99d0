package client

import (
	"strings"
	"sync"
)

const (
	RouteHome           = "/"
	RouteCampaigns      = "/campaigns"
	RouteCreateCampaign = "/campaigns/create"
	RouteCampaign       = "/campaigns/:id"
	RouteDonate         = "/campaigns/:id/donate"
	RouteAdmin          = "/admin"
	RouteHowItWorks     = "/how-it-works"
	RouteAbout          = "/about"
	RouteTestimonials   = "/testimonials"
	RouteProfile        = "/profile"
	RouteLogin          = "/auth/login"
	RouteSignUp         = "/auth/signup"
	RouteNotFound       = "*"
)

// Routes lists the navigable routes in match order. Static segments are
// listed before the parameterised routes they would otherwise shadow.
var Routes = []string{
	RouteHome,
	RouteCampaigns,
	RouteCreateCampaign,
	RouteCampaign,
	RouteDonate,
	RouteAdmin,
	RouteHowItWorks,
	RouteAbout,
	RouteTestimonials,
	RouteProfile,
	RouteLogin,
	RouteSignUp,
}

// MatchRoute resolves path to a route pattern and its parameters. Unknown
// paths resolve to RouteNotFound.
func MatchRoute(path string) (string, map[string]string) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	segments := strings.Split(path, "/")

	for _, route := range Routes {
		if params, ok := matchSegments(strings.Split(route, "/"), segments); ok {
			return route, params
		}
	}
	return RouteNotFound, nil
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// CampaignPath fills RouteCampaign.
func CampaignPath(id string) string {
	return strings.Replace(RouteCampaign, ":id", id, 1)
}

// DonatePath fills RouteDonate.
func DonatePath(id string) string {
	return strings.Replace(RouteDonate, ":id", id, 1)
}

type Navigator interface {
	Current() string
	Navigate(path string)
}

// Router is an in-memory Navigator that records where the view is.
type Router struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewRouter(start string) *Router {
	return &Router{current: start}
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, path)
	r.current = path
}

// History returns every path navigated to, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
