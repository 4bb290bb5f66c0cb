// internal/interfaces/http/middleware/session.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/product-cart/internal/config"
	"github.com/your-org/product-cart/internal/domain/cart"
)

const (
	SessionCookie = "session_id"

	// used when carts never expire
	defaultSessionMaxAge = 365 * 24 * time.Hour
)

// Session issues a guest session cookie and resolves whose cart the request
// works on: the user's when authenticated, otherwise the session's.
// It must run after OptionalAuthMiddleware.
func Session(cfg *config.Config) gin.HandlerFunc {
	maxAge := SessionMaxAge(cfg)

	return func(c *gin.Context) {
		sessionID := getOrCreateSessionID(c)
		// re-issued on every request so an active guest never loses the cart
		c.SetCookie(SessionCookie, sessionID, maxAge, "/", "", cfg.Security.SecureCookies, true)
		c.Set("session_id", sessionID)

		if userID, ok := GetUserIDFromContext(c); ok {
			c.Set("cart_owner", cart.UserOwner(userID))
		} else {
			c.Set("cart_owner", cart.SessionOwner(sessionID))
		}

		c.Next()
	}
}

// SessionMaxAge is the guest cookie lifetime in seconds. It follows the cart
// TTL so the cookie outlives neither more nor less than the cart it points at.
func SessionMaxAge(cfg *config.Config) int {
	ttl := cfg.Storage.CartTTL
	if ttl <= 0 {
		ttl = defaultSessionMaxAge
	}
	return int(ttl / time.Second)
}

func getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookie)
	if err == nil {
		if _, perr := uuid.Parse(sessionID); perr == nil {
			return sessionID
		}
	}
	return uuid.New().String()
}

// CartOwner returns the owner resolved by Session
func CartOwner(c *gin.Context) string {
	return c.GetString("cart_owner")
}

// SessionID returns the guest session id resolved by Session
func SessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
