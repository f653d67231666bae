package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/taskway/internal/observability/context"
)

const contextUserEmailKey = "user_email"

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := bearerToken(c)
		if rawToken == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		email, err := s.authsvc.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserEmailKey, email)
		c.Request = c.Request.WithContext(obscontext.WithUserEmail(c.Request.Context(), email))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// callerEmail returns the authenticated caller set by AuthRequired.
func callerEmail(c *gin.Context) string {
	return c.GetString(contextUserEmailKey)
}
