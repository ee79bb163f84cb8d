package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tenant is the explicit per-request tenant context. It is resolved once at
// the request boundary and threaded into every handler instead of being
// recovered from ambient session state.
type Tenant struct {
	UserID string
	OrgID  string
}

type OrgResolver interface {
	OrgForUser(userID string) (string, error)
}

const tenantContextKey = "tenant"

// TenantMiddleware reads the authenticated user id (session verification
// happens upstream) and resolves the org membership. Requests without an
// identity or membership never reach a handler.
func TenantMiddleware(resolver OrgResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}

		orgID, err := resolver.OrgForUser(userID)
		if err != nil {
			slog.Error("error resolving org membership", "error", err, "user_id", userID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if orgID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No org membership found"})
			return
		}

		c.Set(tenantContextKey, Tenant{UserID: userID, OrgID: orgID})
		c.Next()
	}
}

func tenantFrom(c *gin.Context) Tenant {
	t, _ := c.Get(tenantContextKey)
	tenant, _ := t.(Tenant)
	return tenant
}
