package oauth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/crowdfund-api/internal/config"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestGenerateState(t *testing.T) {
	state1, err := GenerateState()
	assert.NoError(t, err)
	state2, err := GenerateState()
	assert.NoError(t, err)

	assert.NotEqual(t, state1, state2)
	// 32 random bytes, base64 url encoded
	assert.Len(t, state1, 44)
}

func TestProviders_OnlyConfigured(t *testing.T) {
	providers := Providers(&config.Config{
		GitHub: config.OAuthConfig{ClientID: "gh"},
	})

	assert.Len(t, providers, 1)
	assert.Contains(t, providers, "github")
	assert.NotContains(t, providers, "google")

	assert.Empty(t, Providers(&config.Config{}))
}

// tokenServer answers the oauth2 code exchange with a fixed bearer token.
func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testEndpoint(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}
