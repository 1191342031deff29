// auth.go - Session authentication middleware
// This file implements authentication and authorization for the API
//
// Authentication Flow:
// 1. Take the session token from the Authorization header or the session cookie
// 2. Validate token signature and expiration
// 3. Load the user named by the token
// 4. Store user ID and user in context for handlers
//
// Authorization Flow (Admin):
// 1. Run authentication middleware first
// 2. Check if the loaded user has the admin role

package middleware // Declares the package name

import ( // Import required packages
	"errors"   // For sentinel errors
	"net/http" // HTTP status codes (401, 403, etc.)
	"strings"  // String operations (for header parsing)
	"time"     // Token lifetime

	"lusionbeatz-backend/config"   // Project config (for JWT secret)
	"lusionbeatz-backend/database" // Database connection (for user queries)
	"lusionbeatz-backend/models"   // User model (for role checking)

	"github.com/gin-gonic/gin"     // Gin web framework (for middleware)
	"github.com/golang-jwt/jwt/v5" // JWT library (for token validation)
)

const (
	SessionCookie = "session"      // Cookie holding the session token
	SessionTTL    = 72 * time.Hour // How long a session token is valid
)

var ErrInvalidToken = errors.New("invalid token")

// IssueToken signs a session token for the user
func IssueToken(userID string) (string, error) {
	cfg := config.Load() // Load config for JWT secret
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,                           // Add user ID to token
		"exp":     time.Now().Add(SessionTTL).Unix(), // Set expiration
	})
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a session token and returns the user ID it carries
func ParseToken(tokenStr string) (string, error) {
	cfg := config.Load()
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil // Provide secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// SetSessionCookie writes the HttpOnly session cookie
func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(SessionTTL.Seconds()), "/", "", config.Load().Env != "dev", true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", config.Load().Env != "dev", true)
}

func tokenFrom(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ") // Remove 'Bearer ' prefix
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

// authenticate validates the session and loads its user into the context.
// It aborts with 401 and returns false on failure.
func authenticate(c *gin.Context) bool {
	tokenStr := tokenFrom(c)
	if tokenStr == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return false
	}

	userID, err := ParseToken(tokenStr)
	if err != nil { // If token is invalid or expired
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return false
	}

	// Deleted users keep a signed token until it expires; reject them here
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return false
	}

	c.Set("user_id", user.ID)
	c.Set("user", user)
	return true
}

// AuthMiddleware - Returns a Gin middleware function for session authentication
//
// How it works:
// 1. Looks for "Authorization: Bearer <token>" or the session cookie
// 2. Validates the token and loads the user it names
// 3. Stores user ID ("user_id") and user ("user") in the Gin context
// 4. Continues to next handler if valid, aborts with 401 if not
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next() // Continue to next handler (authentication successful)
	}
}

// OptionalAuthMiddleware - Loads the session user when a valid token is sent
// Requests without one, or with a bad one, continue anonymously (never aborts)
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			c.Next() // Anonymous request
			return
		}
		userID, err := ParseToken(tokenStr)
		if err != nil {
			c.Next() // Stale or foreign token, treat as anonymous
			return
		}
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			c.Set("user_id", user.ID)
			c.Set("user", user)
		}
		c.Next()
	}
}

// AdminMiddleware - Returns a Gin middleware function for admin access control
// It authenticates like AuthMiddleware and then requires role "admin" (403 otherwise)
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return // Exit early - authentication failed
		}

		if user := CurrentUser(c); !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next() // Continue to next handler (admin access granted)
	}
}

// CurrentUser returns the user loaded by AuthMiddleware
func CurrentUser(c *gin.Context) models.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(models.User); ok {
			return user
		}
	}
	return models.User{}
}
