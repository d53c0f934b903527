package middleware

import (
	"net/http"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token for browsers that accept it.
const SessionCookie = "token"

const principalKey = "principal"

type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// Auth rejects requests without a valid session token. The Authorization
// header is checked first, then the session cookie.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Authorization")

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required",
				"error":   "no token provided",
			})
			return
		}

		p, err := v.Verify(token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debug("rejected token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
				"error":   err.Error(),
			})
			return
		}

		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(logger.ContextWith(c.Request.Context(), "user_id", p.ID))
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Auth.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
