package handlers

import (
	"io"

	"github.com/dimitrije/crowdfund-api/internal/storage"
	"github.com/m1z23r/drift/pkg/drift"
)

// readUpload reads a raw image body. It stops one byte past the size cap so
// the storage policy can reject oversized files without buffering them.
func readUpload(c *drift.Context) ([]byte, error) {
	defer c.Request.Body.Close()
	return io.ReadAll(io.LimitReader(c.Request.Body, storage.MaxObjectSize+1))
}
