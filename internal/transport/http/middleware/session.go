package middleware

import (
	"github.com/gin-gonic/gin"

	"sitedocs/internal/model"
	"sitedocs/internal/session"
	"sitedocs/internal/transport/http/response"
)

const identityKey = "auth.identity"

// SessionAuth resolves the session cookie into an identity and aborts
// with 401 when it cannot. Handlers behind it can rely on
// CurrentIdentity succeeding.
func SessionAuth(sessions *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Error(c, 401, response.CodeUnauthorized, "authentication required")
			c.Abort()
			return
		}

		identity, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "authentication required")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := value.(model.Identity)
	return identity, ok
}
