package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with its HTTP mapping.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches an underlying cause to a copy of e.
func Wrap(e *Error, err error) *Error {
	return New(e.Code, e.Message, err)
}

// WithMessage returns a copy of e carrying a more specific message. The
// sentinel itself is never mutated.
func (e *Error) WithMessage(message string) *Error {
	return New(e.Code, message, e.Err)
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrTokenExpired       = New(http.StatusUnauthorized, "Token expired", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Checkout error types
var (
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrProductNotFound   = New(http.StatusNotFound, "Product not found", nil)
	ErrCustomerNotFound  = New(http.StatusNotFound, "Customer not found", nil)
	ErrEmptyCart         = New(http.StatusBadRequest, "Cart is empty", nil)
)

// ErrorMiddleware converts errors attached to the Gin context into a
// structured JSON body. Request-handling errors never crash the process.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = Wrap(ErrInternalServer, err)
			}

			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
