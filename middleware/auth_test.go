package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"homecraft-backend/errors"
	"homecraft-backend/models"
	"homecraft-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeCustomerStore struct {
	customers map[primitive.ObjectID]*models.Customer
}

func (f *fakeCustomerStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}
func (f *fakeCustomerStore) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return nil, mongo.ErrNoDocuments
}
func (f *fakeCustomerStore) FindAll(ctx context.Context) ([]models.Customer, error) { return nil, nil }
func (f *fakeCustomerStore) Create(ctx context.Context, customer *models.Customer) error { return nil }
func (f *fakeCustomerStore) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Customer, error) {
	return nil, mongo.ErrNoDocuments
}
func (f *fakeCustomerStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return nil
}
func (f *fakeCustomerStore) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type fakeAdminStore struct {
	admins map[primitive.ObjectID]*models.Admin
}

func (f *fakeAdminStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	if a, ok := f.admins[id]; ok {
		return a, nil
	}
	return nil, mongo.ErrNoDocuments
}
func (f *fakeAdminStore) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return nil, mongo.ErrNoDocuments
}
func (f *fakeAdminStore) FindAll(ctx context.Context) ([]models.Admin, error)    { return nil, nil }
func (f *fakeAdminStore) Create(ctx context.Context, admin *models.Admin) error  { return nil }
func (f *fakeAdminStore) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func newProtectedRouter(tokens *services.TokenService, customers *fakeCustomerStore, admins *fakeAdminStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(errors.ErrorMiddleware())
	r.GET("/me", Protect(tokens, customers, admins), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "isAdmin": IsAdmin(c)})
	})
	r.GET("/admin", Protect(tokens, customers, admins), AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c)})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	customerID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	customers := &fakeCustomerStore{customers: map[primitive.ObjectID]*models.Customer{
		customerID: {ID: customerID, Name: "Asha", Email: "asha@example.com"},
	}}
	admins := &fakeAdminStore{admins: map[primitive.ObjectID]*models.Admin{
		adminID: {ID: adminID, Username: "root"},
	}}
	r := newProtectedRouter(tokens, customers, admins)

	t.Run("MissingTokenRejected", func(t *testing.T) {
		w := get(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "no token")
	})

	t.Run("MalformedTokenRejected", func(t *testing.T) {
		w := get(r, "/me", "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), errors.ErrInvalidToken.Message)
	})

	t.Run("CustomerTokenResolvesCustomer", func(t *testing.T) {
		token, err := tokens.GenerateCustomerToken(customerID.Hex())
		assert.NoError(t, err)

		w := get(r, "/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), customerID.Hex())
		assert.Contains(t, w.Body.String(), `"isAdmin":false`)
	})

	t.Run("AdminTokenResolvesAdmin", func(t *testing.T) {
		token, err := tokens.GenerateAdminToken(adminID.Hex())
		assert.NoError(t, err)

		w := get(r, "/admin", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), adminID.Hex())
	})

	t.Run("CustomerTokenRejectedByAdminOnly", func(t *testing.T) {
		token, err := tokens.GenerateCustomerToken(customerID.Hex())
		assert.NoError(t, err)

		w := get(r, "/admin", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin privileges required")
	})

	t.Run("DeletedPrincipalRejected", func(t *testing.T) {
		token, err := tokens.GenerateCustomerToken(primitive.NewObjectID().Hex())
		assert.NoError(t, err)

		w := get(r, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
