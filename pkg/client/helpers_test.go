package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.items {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

// fakeServer counts hits per route pattern.
type fakeServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newFakeServer(t *testing.T, routes map[string]http.HandlerFunc) *fakeServer {
	t.Helper()

	s := &fakeServer{hits: make(map[string]int)}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		pattern, h := pattern, h
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			s.hits[pattern]++
			s.mu.Unlock()
			h(w, r)
		})
	}
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) count(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[pattern]
}

func (s *fakeServer) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func testToken(t *testing.T, id uuid.UUID, email, name string) string {
	t.Helper()

	claims := tokenClaims{
		IdentityID: id,
		Email:      email,
		Name:       name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func authResponse(t *testing.T, id uuid.UUID, email, name string) dto.AuthResponse {
	t.Helper()

	return dto.AuthResponse{
		Identity: dto.IdentityResponse{ID: id, Email: email, FullName: name},
		TokenResponse: dto.TokenResponse{
			AccessToken:  testToken(t, id, email, name),
			RefreshToken: "refresh-" + id.String(),
			ExpiresIn:    900,
		},
	}
}

func ptr[T any](v T) *T { return &v }

// signedIn is an IdentitySource with a fixed identity.
type signedIn struct{ identity *Identity }

func (s signedIn) Identity() *Identity { return s.identity }

type fixture struct {
	api    *API
	cache  *QueryCache
	router *Router
	notes  *recorder
	who    signedIn
}

func newFixture(srv *fakeServer, identity *Identity) *fixture {
	return &fixture{
		api:    NewAPI(srv.URL, srv.Client(), nil),
		cache:  NewQueryCache(time.Minute),
		router: NewRouter(RouteHome),
		notes:  &recorder{},
		who:    signedIn{identity: identity},
	}
}
