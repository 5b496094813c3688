package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/tenantctx"
	"github.com/wms/backend/internal/infrastructure/logger"
)

// WMSTenantContextMiddleware bridges the already-authenticated JWT claims
// (tenant id, user id, role ids — set into gin.Context by
// JWTAuthMiddleware) into the domain tenantctx.TenantContext every
// inventory command/query handler requires in its request context. It
// must run after JWTAuthMiddleware.
func WMSTenantContextMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantIDStr := GetJWTTenantID(c)
		userIDStr := GetJWTUserID(c)

		if tenantIDStr == "" {
			c.Next()
			return
		}

		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil {
			respondUnauthorized(c, "Invalid tenant ID in token")
			return
		}

		var userID uuid.UUID
		if userIDStr != "" {
			userID, err = uuid.Parse(userIDStr)
			if err != nil {
				respondUnauthorized(c, "Invalid user ID in token")
				return
			}
		}

		tc := tenantctx.TenantContext{
			TenantID: tenantID,
			UserID:   userID,
			Roles:    GetJWTRoleIDs(c),
		}

		ctx := tenantctx.WithContext(c.Request.Context(), tc)
		c.Request = c.Request.WithContext(ctx)

		if log != nil {
			log.Debug("tenant context attached to request",
				zap.String("tenant_id", tenantID.String()),
			)
		}
		_ = logger.FromContext(ctx)

		c.Next()
	}
}
