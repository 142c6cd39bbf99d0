package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryStore maps buckets to Cloudinary folders, which need no setup.
type CloudinaryStore struct {
	upload cloudinaryUploader
}

// NewCloudinaryStore expects cloudinary://<key>:<secret>@<cloud>.
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	u, err := url.Parse(cloudinaryURL)
	if err != nil || u.Scheme != "cloudinary" {
		return nil, fmt.Errorf("cloudinary init: CLOUDINARY_URL must use the cloudinary:// scheme")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	if cld.Config.Cloud.CloudName == "" {
		return nil, fmt.Errorf("cloudinary init: CLOUDINARY_URL has no cloud name")
	}
	return &CloudinaryStore{upload: &cld.Upload}, nil
}

func (s *CloudinaryStore) EnsureBucket(context.Context, string) error {
	return nil
}

func (s *CloudinaryStore) Put(ctx context.Context, bucket, key string, data []byte, _ string) (string, error) {
	publicID := strings.TrimSuffix(key, path.Ext(key))
	result, err := s.upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: publicID,
		Folder:   bucket,
	})
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no url for %s", publicID)
	}
	return result.SecureURL, nil
}
