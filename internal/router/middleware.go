package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/threadline/shopapi/pkg/auth"
	"github.com/threadline/shopapi/pkg/global"
	"github.com/threadline/shopapi/pkg/models"
)

const claimsKey = "claims"

// AuthMiddleware resolves the bearer token to user claims. A missing token
// is a 401, a bad or expired one a 403.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Authorization required", []global.ValidationError{
				{Field: "authorization", Message: "Bearer token is required", Code: "required"},
			}))
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Authorization required", []global.ValidationError{
				{Field: "authorization", Message: "Header must be of the form 'Bearer <token>'", Code: "malformed"},
			}))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(global.GetJWTSecret(), token)
		if err != nil {
			c.JSON(http.StatusForbidden, global.ErrorResponse("Invalid or expired token", nil))
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminMiddleware gates a route group on the admin role claim. It must run
// after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil || claims.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, global.ErrorResponse("Admin access required", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *auth.Claims {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
