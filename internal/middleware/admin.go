package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const IsAdminKey = "is_admin"

type AdminChecker interface {
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

// RequireAdmin rejects callers whose profile lacks the admin flag. It must run
// after Auth.
func RequireAdmin(checker AdminChecker) drift.HandlerFunc {
	return func(c *drift.Context) {
		identityID := GetIdentityID(c)
		if identityID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		isAdmin, err := checker.IsAdmin(c.Request.Context(), identityID)
		if err != nil {
			c.InternalServerError("failed to check permissions")
			return
		}
		if !isAdmin {
			c.Forbidden("admin access required")
			return
		}

		c.Set(IsAdminKey, true)
		c.Next()
	}
}

func IsAdmin(c *drift.Context) bool {
	if v, ok := c.Get(IsAdminKey); ok {
		b, _ := v.(bool)
		return b
	}
	return false
}
