package repository

import (
	"context"

	"homecraft-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductRepo defines the catalog store operations. Checkout only ever
// mutates stock; everything else is admin CRUD.
type ProductRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, page, perPage int) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	UpdateStock(ctx context.Context, id primitive.ObjectID, stock int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CustomerRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindAll(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Customer, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AdminRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindAll(ctx context.Context) ([]models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderRepo holds finalized orders. FindBySessionID backs the webhook
// idempotency guard.
type OrderRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
