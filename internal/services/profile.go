package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, full_name, username, avatar_url, is_admin, created_at, updated_at`

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,100}$`)

type ProfileService struct {
	db    *database.DB
	cache cache.Cache
}

func NewProfileService(db *database.DB, c cache.Cache) *ProfileService {
	return &ProfileService{db: db, cache: c}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Username, &p.AvatarURL, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Sync returns the profile for identityID, creating it on first sight with
// fullName as its display name. The insert is a no-op when the row exists,
// so concurrent first sign-ins still leave exactly one profile.
func (s *ProfileService) Sync(ctx context.Context, identityID uuid.UUID, fullName string) (*models.Profile, error) {
	var cached models.Profile
	if ok, _ := s.cache.Get(ctx, cache.ProfileKey(identityID), &cached); ok {
		return &cached, nil
	}

	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO profiles (id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, identityID, nullableString(strings.TrimSpace(fullName)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileCreate, err)
	}

	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE id = $1
	`, identityID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	_ = s.cache.Set(ctx, cache.ProfileKey(identityID), profile)
	return profile, nil
}

func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE id = $1
	`, id))
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return profile, nil
}

// UpdateOwn changes the caller's display fields. A nil field is left as is.
// is_admin is not reachable from here.
func (s *ProfileService) UpdateOwn(ctx context.Context, id uuid.UUID, fullName, username *string) (*models.Profile, error) {
	if fullName != nil {
		trimmed := strings.TrimSpace(*fullName)
		if trimmed == "" {
			return nil, invalid("full_name", "cannot be blank")
		}
		if len(trimmed) > 255 {
			return nil, invalid("full_name", "is too long")
		}
		fullName = &trimmed
	}
	if username != nil && !usernamePattern.MatchString(*username) {
		return nil, invalid("username", "must be 3-100 letters, digits, dots, dashes or underscores")
	}

	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE profiles SET
			full_name = COALESCE($1, full_name),
			username = COALESCE($2, username),
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+profileColumns,
		fullName, username, id))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	s.forget(ctx, id)
	return profile, nil
}

func (s *ProfileService) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error) {
	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE profiles SET avatar_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+profileColumns,
		avatarURL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	s.forget(ctx, id)
	return profile, nil
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *ProfileService) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	var isAdmin bool
	err := s.db.Pool.QueryRow(ctx, `SELECT is_admin FROM profiles WHERE id = $1`, id).Scan(&isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return isAdmin, err
}

// SetAdmin grants or revokes admin on another profile. The actor must be an
// admin and may not change their own flag.
func (s *ProfileService) SetAdmin(ctx context.Context, actorID, targetID uuid.UUID, isAdmin bool) (*models.Profile, error) {
	if actorID == targetID {
		return nil, invalid("id", "cannot change your own admin status")
	}

	ok, err := s.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin: %w", err)
	}
	if !ok {
		return nil, ErrAuthorization
	}

	profile, err := scanProfile(s.db.Pool.QueryRow(ctx, `
		UPDATE profiles SET is_admin = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+profileColumns,
		isAdmin, targetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	s.forget(ctx, targetID)
	return profile, nil
}

func (s *ProfileService) forget(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Invalidate(ctx, cache.ProfileKey(id))
}
