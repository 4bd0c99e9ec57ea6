package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinibook/clinic-api/internal/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "userID"
	CtxDocID  = "docID"
)

// Front ends carry patient tokens in a "token" header and doctor tokens in a
// "dtoken" header; the admin console uses a standard Authorization bearer.
// Each middleware also accepts the bearer form so API clients are not forced
// into the legacy headers.

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// AuthUser authenticates a patient request and stores the patient id in the
// context.
func AuthUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("token")
		if tokenString == "" {
			tokenString = bearerToken(c)
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized. Login again"})
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Next()
	}
}

// AuthDoctor authenticates a doctor request and stores the doctor id in the
// context.
func AuthDoctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("dtoken")
		if tokenString == "" {
			tokenString = bearerToken(c)
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized. Login again"})
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil || claims.UserID == "" || claims.Role != "doctor" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		c.Set(CtxDocID, claims.UserID)
		c.Next()
	}
}

// AuthAdmin authenticates an admin request via the isAdmin token claim.
func AuthAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized. Login again"})
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied: admin only"})
			return
		}

		c.Next()
	}
}
