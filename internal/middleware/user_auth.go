package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"backend/internal/models"
)

// UserAuth validates user JWT tokens and injects the userId and email into
// the request context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "unauthorized"})
			return
		}
		if principal.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token", "code": "unauthorized"})
			return
		}

		c.Set("userId", principal.UserID)
		c.Set("email", principal.Email)
		c.Set("role", principal.Role)
		c.Next()
	}
}

// OptionalUserAuth resolves a principal when a valid token is present and
// falls back to the guest identity otherwise. Cart and checkout routes use
// it so guests can shop; an invalid token degrades to guest rather than
// failing, matching how the storefront always behaved.
func OptionalUserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil || principal.UserID == "" {
			c.Set("userId", models.GuestUserID)
			c.Set("email", "")
			c.Set("role", "")
			c.Next()
			return
		}

		c.Set("userId", principal.UserID)
		c.Set("email", principal.Email)
		c.Set("role", principal.Role)
		c.Next()
	}
}

// Principal is the verified identity a request acts as.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func principalFromHeader(header, secret string) (Principal, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return Principal{}, nil
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Principal{}, jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, jwt.ErrTokenInvalidClaims
	}

	userIDValue, _ := claims["userId"].(string)
	if strings.TrimSpace(userIDValue) == "" {
		// admin tokens carry sub instead of userId
		userIDValue, _ = claims["sub"].(string)
	}
	if strings.TrimSpace(userIDValue) == "" {
		return Principal{}, jwt.ErrTokenInvalidClaims
	}

	emailValue, _ := claims["email"].(string)
	roleValue, _ := claims["role"].(string)
	return Principal{UserID: userIDValue, Email: emailValue, Role: roleValue}, nil
}
