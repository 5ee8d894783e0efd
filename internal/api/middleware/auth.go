package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"licensedesk/internal/config"
	"licensedesk/internal/models"
)

const userContextKey = "currentUser"

// JWTAuth validates the bearer token and stores the acting user on the
// request context. Tokens carry the username in "sub" and the role flag in
// "role"; anything other than Admin is treated as a regular user.
func JWTAuth(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.AuthSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		username, _ := claims["sub"].(string)
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has no subject"})
			return
		}

		user := models.User{Username: username, Role: models.RoleUser}
		if role, _ := claims["role"].(string); role == string(models.RoleAdmin) {
			user.Role = models.RoleAdmin
		}

		SetUser(c, user)
		c.Next()
	}
}

// SetUser stores the acting user on the request context. JWTAuth calls this
// after validating a token; tests call it directly.
func SetUser(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}

// RequireAdmin gates the product-management endpoints. It must run after
// JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by JWTAuth; zero value when unset.
func CurrentUser(c *gin.Context) models.User {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(models.User); ok {
			return u
		}
	}
	return models.User{}
}
