// Package storage uploads user images into public buckets and returns the
// URL they can be fetched from.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	BucketCampaignImages = "campaign-images"
	BucketAvatars        = "avatars"
)

// MaxObjectSize caps every upload at 2MB.
const MaxObjectSize = 2 << 20

var (
	ErrTooLarge        = errors.New("file exceeds the 2MB limit")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrEmpty           = errors.New("file is empty")
	ErrUnknownBucket   = errors.New("unknown bucket")
)

// Store is an object store holding public-read buckets.
type Store interface {
	// EnsureBucket creates the bucket when missing. Calling it again is a no-op.
	EnsureBucket(ctx context.Context, bucket string) error
	// Put writes the object and returns its public URL.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
}

type Policy struct {
	MaxSize      int64
	AllowedTypes []string
}

func DefaultPolicy() Policy {
	return Policy{
		MaxSize:      MaxObjectSize,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}
}

// Check sniffs the content type from the bytes themselves; a client-declared
// type is never trusted.
func (p Policy) Check(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > p.MaxSize {
		return nil, ErrTooLarge
	}
	mtype := mimetype.Detect(data)
	for _, allowed := range p.AllowedTypes {
		if mtype.Is(allowed) {
			return mtype, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
}

type Service struct {
	store  Store
	policy Policy
}

func NewService(store Store, policy Policy) *Service {
	return &Service{store: store, policy: policy}
}

// EnsureBuckets creates the campaign image and avatar buckets.
func (s *Service) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{BucketCampaignImages, BucketAvatars} {
		if err := s.store.EnsureBucket(ctx, bucket); err != nil {
			return fmt.Errorf("failed to ensure bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// Upload validates data and stores it under <owner>/<random>.<ext>.
func (s *Service) Upload(ctx context.Context, bucket string, owner uuid.UUID, data []byte) (string, error) {
	if bucket != BucketCampaignImages && bucket != BucketAvatars {
		return "", fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}

	mtype, err := s.policy.Check(data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", owner, uuid.New(), mtype.Extension())
	url, err := s.store.Put(ctx, bucket, key, data, mtype.String())
	if err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}
	return url, nil
}

// IsRejected reports whether err is a policy rejection rather than a store failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrTooLarge) || errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrEmpty) || errors.Is(err, ErrUnknownBucket)
}
