package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userIDKey       = "user_id"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", id,
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered",
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	})
}

// requireSelf authenticates the bearer token, then checks that it belongs
// to the user named in the path.
func (s *Server) requireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		acting, err := s.guard.Authenticate(c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			s.writeError(c, err)
			return
		}
		if err := s.guard.AuthorizeSelf(acting, c.Param("userID")); err != nil {
			s.writeError(c, err)
			return
		}
		c.Set(userIDKey, acting)
		c.Next()
	}
}
