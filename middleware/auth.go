package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireAuth.
const (
	ContextUserID          = "user_id"
	ContextEstablishmentID = "establishment_id"
	ContextRole            = "role"
)

// RequireAuth validates the Bearer token and stores the actor identity in
// the gin context. When roles are given, the token's role must be one of
// them.
func RequireAuth(jwtSecret string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "MISSING_TOKEN", "Missing or malformed Authorization header")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "INVALID_TOKEN", "Failed to validate token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "INVALID_CLAIMS", "Token claims are not in the expected format")
			return
		}

		userID, okUser := claimUint(claims, "userId")
		establishmentID, okEst := claimUint(claims, "establishmentId")
		role, _ := claims["role"].(string)
		if !okUser || !okEst {
			abortUnauthorized(c, "INVALID_CLAIMS", "Token is missing identity claims")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextEstablishmentID, establishmentID)
		c.Set(ContextRole, role)

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "FORBIDDEN",
						"message": "Insufficient permissions to access this resource",
					},
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user id from the Gin context.
func GetUserID(c *gin.Context) (uint, error) {
	return contextUint(c, ContextUserID)
}

// GetEstablishmentID extracts the tenant id from the Gin context.
func GetEstablishmentID(c *gin.Context) (uint, error) {
	return contextUint(c, ContextEstablishmentID)
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func contextUint(c *gin.Context, key string) (uint, error) {
	v, exists := c.Get(key)
	if !exists {
		return 0, &AuthError{Code: "MISSING_IDENTITY", Message: key + " not found in context"}
	}
	id, ok := v.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_IDENTITY", Message: key + " is not a uint"}
	}
	return id, nil
}

func claimUint(claims jwt.MapClaims, key string) (uint, bool) {
	switch v := claims[key].(type) {
	case float64:
		return uint(v), true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case uint:
		return v, true
	default:
		return 0, false
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}
