package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem keeps buckets as directories under root and serves them at
// publicURL.
type Filesystem struct {
	root      string
	publicURL string
}

func NewFilesystem(root, publicURL string) *Filesystem {
	return &Filesystem{root: root, publicURL: strings.TrimRight(publicURL, "/")}
}

func (f *Filesystem) EnsureBucket(_ context.Context, bucket string) error {
	return os.MkdirAll(filepath.Join(f.root, bucket), 0o755)
}

func (f *Filesystem) Put(_ context.Context, bucket, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(f.root, bucket, filepath.FromSlash(key))
	if !strings.HasPrefix(path, filepath.Join(f.root, bucket)+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", f.publicURL, bucket, key), nil
}

// Handler serves stored objects. Mount it with the public URL's path prefix stripped.
func (f *Filesystem) Handler() http.Handler {
	return http.FileServer(http.Dir(f.root))
}
