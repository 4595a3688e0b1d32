package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/pkg/response"
)

// HeaderDeviceID carries the opaque per-installation token on every request.
const HeaderDeviceID = "x-device-id"

const maxDeviceTokenLen = 128

const ctxOwnerID = "owner_id"

// DeviceResolver turns a device token into an owner id, registering unknown
// tokens on first sight.
type DeviceResolver interface {
	ResolveOrCreate(ctx context.Context, token string) (string, error)
}

// DeviceIdentity validates the x-device-id header, upserts the identity and
// injects the resolved owner id into the request context. Downstream code
// only ever sees a plain owner id string.
func DeviceIdentity(devices DeviceResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(HeaderDeviceID))
		if token == "" {
			response.Error(c, http.StatusBadRequest, "MISSING_DEVICE_ID", "Missing x-device-id header")
			c.Abort()
			return
		}
		if len(token) > maxDeviceTokenLen {
			response.Error(c, http.StatusBadRequest, "INVALID_DEVICE_ID", "Invalid x-device-id header")
			c.Abort()
			return
		}

		ownerID, err := devices.ResolveOrCreate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to resolve device identity")
			c.Abort()
			return
		}

		c.Set(ctxOwnerID, ownerID)
		c.Next()
	}
}

// OwnerID returns the owner id resolved by DeviceIdentity, or "".
func OwnerID(c *gin.Context) string {
	return c.GetString(ctxOwnerID)
}
