package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/internal/utils"
)

// AuthMiddleware resolves the session bearer token to a vendor identity.
// The token is the credential the auth provider issued at login and is also
// what gets forwarded upstream, so the raw token is kept in the request
// context alongside the vendor.
type AuthMiddleware struct {
	authService *service.AuthService
	rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle returns a Gin middleware function that enforces authentication.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			m.handleAuthError(c, "UNAUTHENTICATED", "Missing or invalid authorization header")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		vendor, err := m.authService.Resolve(c.Request.Context(), token)
		if err != nil || vendor == nil {
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("vendor", vendor)
		c.Set("vendor_id", vendor.ID)
		c.Set("token", token)

		c.Next()
	}
}

func (m *AuthMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

// GetVendor returns the authenticated vendor from context.
func GetVendor(c *gin.Context) *models.Vendor {
	vendor, _ := c.Get("vendor")
	if vendor == nil {
		return nil
	}
	return vendor.(*models.Vendor)
}

// GetToken returns the session bearer token from context.
func GetToken(c *gin.Context) string {
	return c.GetString("token")
}
