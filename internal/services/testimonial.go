package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const testimonialColumns = `t.id, t.user_id, t.content, t.role, t.status, t.is_featured, p.full_name, t.created_at, t.updated_at`

const testimonialFrom = `FROM testimonials t LEFT JOIN profiles p ON p.id = t.user_id`

type TestimonialService struct {
	db    *database.DB
	cache cache.Cache
}

func NewTestimonialService(db *database.DB, c cache.Cache) *TestimonialService {
	return &TestimonialService{db: db, cache: c}
}

func scanTestimonial(row pgx.Row) (*models.Testimonial, error) {
	var t models.Testimonial
	err := row.Scan(&t.ID, &t.UserID, &t.Content, &t.Role, &t.Status, &t.IsFeatured, &t.AuthorName, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTestimonials(rows pgx.Rows) ([]models.Testimonial, error) {
	defer rows.Close()
	testimonials := []models.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		testimonials = append(testimonials, *t)
	}
	return testimonials, rows.Err()
}

// Create submits a testimonial for moderation. It starts pending and unfeatured.
func (s *TestimonialService) Create(ctx context.Context, userID uuid.UUID, content string, role *string) (*models.Testimonial, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "is required")
	}
	if role != nil {
		role = nullableString(strings.TrimSpace(*role))
	}

	var id uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO testimonials (user_id, content, role, status, is_featured)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id
	`, userID, content, role, models.TestimonialPending).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	return s.GetByID(ctx, id)
}

func (s *TestimonialService) GetByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	t, err := scanTestimonial(s.db.Pool.QueryRow(ctx, `
		SELECT `+testimonialColumns+` `+testimonialFrom+`
		WHERE t.id = $1
	`, id))
	if err != nil {
		return nil, notFound(err, "testimonial")
	}
	return t, nil
}

// ListFeatured is the public list: approved and featured, newest first.
func (s *TestimonialService) ListFeatured(ctx context.Context) ([]models.Testimonial, error) {
	var cached []models.Testimonial
	if ok, _ := s.cache.Get(ctx, cache.KeyFeaturedTestimonials, &cached); ok {
		return cached, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+testimonialColumns+` `+testimonialFrom+`
		WHERE t.status = $1 AND t.is_featured = TRUE
		ORDER BY t.created_at DESC
	`, models.TestimonialApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	testimonials, err := collectTestimonials(rows)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cache.KeyFeaturedTestimonials, testimonials)
	return testimonials, nil
}

func (s *TestimonialService) ListAll(ctx context.Context) ([]models.Testimonial, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+testimonialColumns+` `+testimonialFrom+`
		ORDER BY t.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return collectTestimonials(rows)
}

func (s *TestimonialService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.TestimonialStatus) (*models.Testimonial, error) {
	if !next.Valid() {
		return nil, invalid("status", "must be pending, approved or rejected")
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next)
	}

	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE testimonials SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, next, id, models.TestimonialPending)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: testimonial already decided", ErrInvalidTransition)
	}

	s.invalidateFeatured(ctx)
	current.Status = next
	return current, nil
}

// SetFeatured toggles the featured flag independently of status.
func (s *TestimonialService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Testimonial, error) {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE testimonials SET is_featured = $1, updated_at = NOW()
		WHERE id = $2
	`, featured, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("testimonial: %w", ErrNotFound)
	}

	s.invalidateFeatured(ctx)
	return s.GetByID(ctx, id)
}

func (s *TestimonialService) invalidateFeatured(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cache.KeyFeaturedTestimonials)
}
