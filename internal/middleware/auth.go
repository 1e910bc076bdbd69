package middleware

import (
	"net/http"
	"strings"

	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// jwtSecret is set once at startup via Init before any route is registered.
var jwtSecret []byte

// Init stores the signing secret used to validate tokens.
func Init(secret []byte) {
	jwtSecret = secret
}

// Secret returns the configured signing secret (used by the websocket gate).
func Secret() []byte {
	return jwtSecret
}

// RequireRole validates the JWT and checks that the caller's role is in the
// allowed list. On success the user id, username, and role are placed on the
// gin context for handlers to read.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		claims, err := ParseClaims(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		userRole, _ := claims["role"].(string)
		allowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set("userID", claims["sub"])
		c.Set("username", claims["name"])
		c.Set("userRole", userRole)

		c.Next()
	}
}

// ParseClaims validates a signed token and returns its claims.
func ParseClaims(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the access_token cookie set by browser clients.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// Actor returns the display name of the authenticated caller.
func Actor(c *gin.Context) string {
	if name, ok := c.Get("username"); ok {
		if s, ok := name.(string); ok {
			return s
		}
	}
	return ""
}
