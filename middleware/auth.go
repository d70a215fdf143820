package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/izzico/izzico-backend/config"
	apperrors "github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/logger"
	"github.com/izzico/izzico-backend/types"
)

const (
	// UserIDKey is the gin context key holding the authenticated user's ID.
	UserIDKey = "user_id"
)

// SupabaseClaims represents the expected claims in a Supabase access token.
type SupabaseClaims struct {
	Email        string             `json:"email"`
	Role         string             `json:"role"`
	UserMetadata types.UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token against the Supabase JWT secret
// and stores the subject in the request context.
func AuthMiddleware(cfg *config.SupabaseConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		token := ""
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization required",
			})
			return
		}

		userID, err := validateJWT(token, cfg.JWTSecret)
		if err != nil {
			log.Warnw("Invalid JWT token",
				"error", err,
				"token", logger.MaskJWT(token),
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
			)

			if strings.Contains(err.Error(), "token is expired") {
				if err := c.Error(apperrors.Unauthorized("token_expired", "Your session has expired")); err != nil {
					log.Errorw("Failed to set error in context", "error", err)
				}
				c.Abort()
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authentication token",
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// validateJWT verifies an HS256 Supabase access token and returns its subject.
func validateJWT(tokenString, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret is not configured")
	}

	claims := &SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("missing subject claim in token")
	}
	return claims.Subject, nil
}
