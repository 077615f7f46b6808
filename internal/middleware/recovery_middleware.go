package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/sku"
	"github.com/sellerhq/seller_api/internal/utils"
)

// RecoveryMiddleware recovers from panics. The check-sku routes answer with
// the degraded flat shape the dashboard validation client can interpret;
// everything else gets the standard error envelope.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error().
			Interface("panic", err).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")

		if strings.HasSuffix(c.Request.URL.Path, "/products/check-sku") {
			c.AbortWithStatusJSON(http.StatusInternalServerError, sku.Result{
				IsAvailable: false,
				Confidence:  sku.ConfidenceLow,
				Error:       fmt.Sprintf("availability check failed: %v", err),
			})
			return
		}

		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		c.Abort()
	})
}
