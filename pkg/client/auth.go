package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minPasswordLength = 6

// Identity is the authenticated subject of a session.
type Identity struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

type storedSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type tokenClaims struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	jwt.RegisteredClaims
}

// TokenAuth is the client side of the auth provider. It keeps the token
// pair, persists it to a session file, and tells subscribers about every
// session change.
type TokenAuth struct {
	api  *API
	path string
	now  func() time.Time

	mu       sync.RWMutex
	loaded   bool
	session  *storedSession
	identity *Identity

	listenerMu sync.Mutex
	listeners  map[int]func(*Identity)
	nextID     int
}

// NewTokenAuth creates a TokenAuth. An empty sessionFile keeps the session
// in memory only.
func NewTokenAuth(baseURL string, httpClient *http.Client, sessionFile string) *TokenAuth {
	a := &TokenAuth{
		path:      sessionFile,
		now:       time.Now,
		listeners: make(map[int]func(*Identity)),
	}
	a.api = NewAPI(baseURL, httpClient, a)
	return a
}

func (a *TokenAuth) AccessToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return ""
	}
	return a.session.AccessToken
}

func (a *TokenAuth) Identity() *Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.identity
}

// Session resolves the persisted session, refreshing an expired access
// token. It returns nil when there is no usable session.
func (a *TokenAuth) Session(ctx context.Context) (*Identity, error) {
	a.mu.Lock()
	if !a.loaded {
		a.loaded = true
		if s, err := a.readFile(); err != nil {
			a.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		} else if s != nil {
			a.setLocked(s)
		}
	}
	session := a.session
	identity := a.identity
	a.mu.Unlock()

	if session == nil {
		return nil, nil
	}
	if a.now().Before(session.ExpiresAt) && identity != nil {
		return identity, nil
	}

	if err := a.Refresh(ctx); err != nil {
		if errors.Is(err, ErrAuthRequired) {
			a.clear()
			return nil, nil
		}
		return nil, err
	}
	return a.Identity(), nil
}

func (a *TokenAuth) SignUp(ctx context.Context, email, password, fullName string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, invalid("email", "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	var resp dto.AuthResponse
	req := dto.SignUpRequest{Email: email, Password: password, FullName: strings.TrimSpace(fullName)}
	if err := a.api.post(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, authErr(err)
	}
	return a.accept(resp.TokenResponse)
}

func (a *TokenAuth) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if password == "" {
		return nil, invalid("password", "is required")
	}

	var resp dto.AuthResponse
	if err := a.api.post(ctx, "/auth/signin", dto.SignInRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, authErr(err)
	}
	return a.accept(resp.TokenResponse)
}

// SignOut revokes the session remotely, then forgets it. When the remote
// call fails the local session is kept.
func (a *TokenAuth) SignOut(ctx context.Context) error {
	a.mu.RLock()
	session := a.session
	a.mu.RUnlock()

	if session == nil {
		return nil
	}

	req := dto.RefreshTokenRequest{RefreshToken: session.RefreshToken}
	if err := a.api.post(ctx, "/auth/logout", req, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}

	a.clear()
	return nil
}

func (a *TokenAuth) UpdatePassword(ctx context.Context, current, next string) error {
	if a.AccessToken() == "" {
		return ErrAuthRequired
	}
	if current == "" {
		return invalid("current_password", "is required")
	}
	if len(next) < minPasswordLength {
		return invalid("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	req := dto.UpdatePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := a.api.post(ctx, "/auth/password", req, nil); err != nil {
		return authErr(err)
	}
	return nil
}

// Refresh rotates the token pair.
func (a *TokenAuth) Refresh(ctx context.Context) error {
	a.mu.RLock()
	session := a.session
	a.mu.RUnlock()

	if session == nil || session.RefreshToken == "" {
		return ErrAuthRequired
	}

	var resp dto.AuthResponse
	if err := a.api.post(ctx, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: session.RefreshToken}, &resp); err != nil {
		if errors.Is(err, ErrAuthRequired) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	_, err := a.accept(resp.TokenResponse)
	return err
}

// Subscribe registers fn for session changes and returns its cancel func.
func (a *TokenAuth) Subscribe(fn func(*Identity)) func() {
	a.listenerMu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.listenerMu.Unlock()

	return func() {
		a.listenerMu.Lock()
		delete(a.listeners, id)
		a.listenerMu.Unlock()
	}
}

func (a *TokenAuth) accept(tokens dto.TokenResponse) (*Identity, error) {
	identity, err := identityFromToken(tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	s := &storedSession{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    a.now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}

	a.mu.Lock()
	a.loaded = true
	a.session = s
	a.identity = identity
	err = a.writeFile(s)
	a.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: failed to persist session: %v", ErrAuth, err)
	}

	a.emit(identity)
	return identity, nil
}

func (a *TokenAuth) clear() {
	a.mu.Lock()
	a.session = nil
	a.identity = nil
	if a.path != "" {
		_ = os.Remove(a.path)
	}
	a.mu.Unlock()

	a.emit(nil)
}

func (a *TokenAuth) setLocked(s *storedSession) {
	a.session = s
	if identity, err := identityFromToken(s.AccessToken); err == nil {
		a.identity = identity
	}
}

func (a *TokenAuth) emit(identity *Identity) {
	a.listenerMu.Lock()
	listeners := make([]func(*Identity), 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(identity)
	}
}

func (a *TokenAuth) readFile() (*storedSession, error) {
	if a.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var s storedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (a *TokenAuth) writeFile(s *storedSession) error {
	if a.path == "" {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(a.path, data, 0o600)
}

// identityFromToken reads the subject from an access token. The signature is
// the server's concern; the client only needs the claims.
func identityFromToken(token string) (*Identity, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	id := claims.IdentityID
	if id == uuid.Nil {
		id, _ = uuid.Parse(claims.Subject)
	}
	if id == uuid.Nil {
		return nil, errors.New("access token has no subject")
	}
	return &Identity{ID: id, Email: claims.Email, FullName: claims.Name}, nil
}

func authErr(err error) error {
	if IsValidation(err) || errors.Is(err, ErrConflict) || errors.Is(err, ErrRateLimited) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrAuth, err)
}
