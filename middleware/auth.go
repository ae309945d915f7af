package middleware

import (
	"strings"

	"homecraft-backend/errors"
	"homecraft-backend/repository"
	"homecraft-backend/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Keys set on the Gin context by Protect.
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
)

// abort records the failure on the context and stops the chain; the
// error middleware renders the response.
func abort(c *gin.Context, err *errors.Error) {
	_ = c.Error(err)
	c.Abort()
}

// Protect verifies the bearer token and loads the principal from the
// store matching the embedded role claim. Customer and admin tokens are
// never interchangeable; the role decides which collection is consulted.
func Protect(tokens *services.TokenService, customers repository.CustomerRepo, admins repository.AdminRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abort(c, errors.ErrUnauthorized.WithMessage("Not authorized, no token"))
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if appErr, ok := err.(*errors.Error); ok {
				abort(c, appErr)
			} else {
				abort(c, errors.ErrInvalidToken)
			}
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		id, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			abort(c, errors.ErrInvalidToken)
			return
		}

		switch role {
		case services.RoleAdmin:
			if _, err := admins.FindByID(c.Request.Context(), id); err != nil {
				abort(c, errors.ErrUnauthorized.WithMessage("Not authorized, user not found"))
				return
			}
			c.Set(CtxIsAdmin, true)
		case services.RoleCustomer:
			if _, err := customers.FindByID(c.Request.Context(), id); err != nil {
				abort(c, errors.ErrUnauthorized.WithMessage("Not authorized, user not found"))
				return
			}
			c.Set(CtxIsAdmin, false)
		default:
			abort(c, errors.ErrInvalidToken)
			return
		}

		c.Set(CtxUserID, sub)
		c.Next()
	}
}

// AdminOnly gates a route to the admin realm. Must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			abort(c, errors.ErrForbidden.WithMessage("Access denied. Admin privileges required."))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated principal's id set by Protect.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// IsAdmin reports whether the authenticated principal is an admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(CtxIsAdmin)
}
