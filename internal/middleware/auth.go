package middleware

import (
	"net/http"
	"strings"

	"ward-rounds/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffIDKey is the context key holding the identified staff ID
const StaffIDKey = "staffID"

// Identify reads an optional bearer token. Requests without a valid one continue
// anonymously; routes that need a subject sit behind RequireStaff.
func Identify(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Next()
	}
}

// RequireStaff rejects anonymous requests
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := StaffID(c); !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffID returns the identified staff member, if any
func StaffID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(StaffIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// StaffIDPtr is StaffID shaped for audit fields
func StaffIDPtr(c *gin.Context) *uint {
	if id, ok := StaffID(c); ok {
		return &id
	}
	return nil
}
