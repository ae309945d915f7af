package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestErrorMiddleware(t *testing.T) {
	t.Run("RendersAppError", func(t *testing.T) {
		w := serve(func(c *gin.Context) {
			_ = c.Error(ErrInsufficientStock.WithMessage("Not enough stock for 'Teak Bowl'"))
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Teak Bowl")
	})

	t.Run("WrapsUnknownErrorAs500", func(t *testing.T) {
		w := serve(func(c *gin.Context) {
			_ = c.Error(fmt.Errorf("connection reset"))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), ErrInternalServer.Message)
	})

	t.Run("NoErrorPassesThrough", func(t *testing.T) {
		w := serve(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestWithMessage(t *testing.T) {
	detailed := ErrProductNotFound.WithMessage("Product 'Jute Rug' not found")

	assert.Equal(t, http.StatusNotFound, detailed.Code)
	assert.Equal(t, "Product 'Jute Rug' not found", detailed.Message)
	// The sentinel must stay untouched for later callers.
	assert.Equal(t, "Product not found", ErrProductNotFound.Message)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("no reachable servers")
	wrapped := Wrap(ErrInternalServer, cause)

	assert.Equal(t, http.StatusInternalServerError, wrapped.Code)
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.Contains(t, wrapped.Error(), "no reachable servers")
}
