package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studyquest/gamification/pkg/logger"
)

const AdminTokenHeader = "X-Admin-Token"

type Authorization struct {
	adminToken string
}

func NewAuthorization(adminToken string) *Authorization {
	return &Authorization{
		adminToken: adminToken,
	}
}

// AdminOnly rejects requests without the configured admin token. With no
// token configured every administrative request is rejected.
func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		if a.adminToken == "" {
			log.Warn("admin endpoint called but no admin token is configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access disabled"})
			return
		}

		token := c.GetHeader(AdminTokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token is required"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			log.Info("unauthorized access attempt to admin endpoint",
				zap.String("path", c.FullPath()),
				zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
