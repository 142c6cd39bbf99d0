package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/dimitrije/crowdfund-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

const identityColumns = `id, email, full_name, password_hash, provider, provider_id, created_at, updated_at`

// AuthService owns identities issued by this service: email/password
// accounts and OAuth sign-ins.
type AuthService struct {
	db *database.DB
}

func NewAuthService(db *database.DB) *AuthService {
	return &AuthService{db: db}
}

func scanIdentity(row pgx.Row) (*models.Identity, error) {
	var i models.Identity
	err := row.Scan(&i.ID, &i.Email, &i.FullName, &i.PasswordHash, &i.Provider, &i.ProviderID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "is not a valid address")
	}
	if len(password) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	return nil
}

func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string) (*models.Identity, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity, err := scanIdentity(s.db.Pool.QueryRow(ctx, `
		INSERT INTO identities (email, password_hash, full_name, provider)
		VALUES ($1, $2, $3, $4)
		RETURNING `+identityColumns,
		email, string(hash), nullableString(strings.TrimSpace(fullName)), models.ProviderEmail))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	return identity, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	identity, err := s.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if identity.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return identity, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, identityID uuid.UUID, current, next string) error {
	if len(next) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	identity, err := s.GetByID(ctx, identityID)
	if err != nil {
		return err
	}
	if identity.PasswordHash == nil {
		return invalid("password", "account has no password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE identities SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`, string(hash), identityID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *AuthService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.Identity, error) {
	identity, err := scanIdentity(s.db.Pool.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE provider = $1 AND provider_id = $2
	`, info.Provider, info.ID))

	if err == nil {
		if identity.Email != info.Email {
			_, _ = s.db.Pool.Exec(ctx, `
				UPDATE identities SET email = $1, updated_at = NOW()
				WHERE id = $2
			`, info.Email, identity.ID)
			identity.Email = info.Email
		}
		return identity, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	identity, err = scanIdentity(s.db.Pool.QueryRow(ctx, `
		INSERT INTO identities (email, full_name, provider, provider_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+identityColumns,
		normalizeEmail(info.Email), nullableString(info.Name), info.Provider, info.ID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	return identity, nil
}

func (s *AuthService) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	identity, err := scanIdentity(s.db.Pool.QueryRow(ctx, `
		SELECT `+identityColumns+` FROM identities WHERE id = $1
	`, id))
	if err != nil {
		return nil, notFound(err, "identity")
	}
	return identity, nil
}

func (s *AuthService) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	identity, err := scanIdentity(s.db.Pool.QueryRow(ctx, `
		SELECT `+identityColumns+` FROM identities WHERE email = $1
	`, email))
	if err != nil {
		return nil, notFound(err, "identity")
	}
	return identity, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
