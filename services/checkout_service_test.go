package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"homecraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// --- Mocks for Dependencies ---

type MockProductRepo struct{ mock.Mock }

func (m *MockProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockProductRepo) Find(ctx context.Context, page, perPage int) ([]models.Product, int64, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}
func (m *MockProductRepo) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockProductRepo) UpdateStock(ctx context.Context, id primitive.ObjectID, stock int) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}
func (m *MockProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCustomerRepo struct{ mock.Mock }

func (m *MockCustomerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *MockCustomerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *MockCustomerRepo) FindAll(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Customer, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *MockCustomerRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}
func (m *MockCustomerRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderRepo struct{ mock.Mock }

func (m *MockOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepo) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepo) FindAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Order), args.Error(1)
}
func (m *MockOrderRepo) FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]models.Order), args.Error(1)
}
func (m *MockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateSession(params *SessionParams) (string, error) {
	args := m.Called(params)
	return args.String(0), args.Error(1)
}
func (m *MockGateway) RetrieveSession(id string) (*stripe.CheckoutSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func newTestCheckout() (*CheckoutService, *MockProductRepo, *MockCustomerRepo, *MockOrderRepo, *MockGateway) {
	products := new(MockProductRepo)
	customers := new(MockCustomerRepo)
	orders := new(MockOrderRepo)
	gateway := new(MockGateway)
	svc := NewCheckoutService(products, customers, orders, gateway, "http://localhost:3000")
	return svc, products, customers, orders, gateway
}

// --- Tests ---

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	customerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	customer := &models.Customer{
		ID:    customerID,
		Name:  "Asha",
		Email: "asha@example.com",
		Address: models.Address{
			Street: "12 MG Road", City: "Pune", State: "MH", PostalCode: "411001", Country: "IN",
		},
	}
	product := &models.Product{ID: productID, Name: "Teak Bowl", Price: 100, Stock: 5}

	t.Run("Success", func(t *testing.T) {
		svc, products, customers, _, gateway := newTestCheckout()

		// Arrange: subtotal 200 is under the 500 threshold, so the total
		// is 200 + 50 shipping + 36 tax = 286.
		customers.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		products.On("FindByID", ctx, productID).Return(product, nil).Once()
		gateway.On("CreateSession", mock.MatchedBy(func(p *SessionParams) bool {
			return p.AmountMinor == 28600 && p.Currency == "inr" && p.CustomerEmail == "asha@example.com"
		})).Return("cs_test_123", nil).Once()

		// Act: the client-declared price is deliberately wrong; it must
		// not influence the computed total.
		items := []CartItem{{ProductID: productID.Hex(), Quantity: 2, Name: "Teak Bowl", Price: 1}}
		sessionID, svcErr := svc.CreateSession(ctx, customerID.Hex(), items)

		// Assert
		assert.Nil(t, svcErr)
		assert.Equal(t, "cs_test_123", sessionID)
		gateway.AssertExpectations(t)

		params := gateway.Calls[0].Arguments.Get(0).(*SessionParams)
		var lines []metadataLine
		assert.NoError(t, json.Unmarshal([]byte(params.Metadata["cartItems"]), &lines))
		assert.Equal(t, []metadataLine{{Product: productID.Hex(), Quantity: 2}}, lines)
		assert.Equal(t, customerID.Hex(), params.Metadata["customerId"])

		var addr models.Address
		assert.NoError(t, json.Unmarshal([]byte(params.Metadata["shippingAddress"]), &addr))
		assert.Equal(t, customer.Address, addr)
	})

	t.Run("ShippingWaivedAboveThreshold", func(t *testing.T) {
		svc, products, customers, _, gateway := newTestCheckout()

		customers.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		products.On("FindByID", ctx, productID).Return(product, nil).Once()
		// 6 * 100 = 600 subtotal, shipping waived: 600 * 1.18 = 708
		gateway.On("CreateSession", mock.MatchedBy(func(p *SessionParams) bool {
			return p.AmountMinor == 70800
		})).Return("cs_test_456", nil).Once()

		_, svcErr := svc.CreateSession(ctx, customerID.Hex(), []CartItem{{ProductID: productID.Hex(), Quantity: 6}})

		assert.Nil(t, svcErr)
		gateway.AssertExpectations(t)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		svc, _, _, _, gateway := newTestCheckout()

		_, svcErr := svc.CreateSession(ctx, customerID.Hex(), nil)

		assert.NotNil(t, svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.Code)
		gateway.AssertNotCalled(t, "CreateSession", mock.Anything)
	})

	t.Run("CustomerNotFound", func(t *testing.T) {
		svc, _, customers, _, gateway := newTestCheckout()

		customers.On("FindByID", ctx, customerID).Return(nil, mongo.ErrNoDocuments).Once()

		_, svcErr := svc.CreateSession(ctx, customerID.Hex(), []CartItem{{ProductID: productID.Hex(), Quantity: 1}})

		assert.NotNil(t, svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.Code)
		gateway.AssertNotCalled(t, "CreateSession", mock.Anything)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		svc, products, customers, _, gateway := newTestCheckout()

		customers.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		products.On("FindByID", ctx, productID).Return(nil, mongo.ErrNoDocuments).Once()

		_, svcErr := svc.CreateSession(ctx, customerID.Hex(), []CartItem{{ProductID: productID.Hex(), Quantity: 1, Name: "Teak Bowl"}})

		assert.NotNil(t, svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.Code)
		assert.Contains(t, svcErr.Message, "Teak Bowl")
		gateway.AssertNotCalled(t, "CreateSession", mock.Anything)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		svc, products, customers, _, gateway := newTestCheckout()

		customers.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		products.On("FindByID", ctx, productID).Return(product, nil).Once()

		_, svcErr := svc.CreateSession(ctx, customerID.Hex(), []CartItem{{ProductID: productID.Hex(), Quantity: 6}})

		assert.NotNil(t, svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.Code)
		assert.Contains(t, svcErr.Message, "Not enough stock")
		gateway.AssertNotCalled(t, "CreateSession", mock.Anything)
	})
}

func completedSession(sessionID string, customerID, productID primitive.ObjectID, qty int, amountTotal int64) *stripe.CheckoutSession {
	cart, _ := json.Marshal([]metadataLine{{Product: productID.Hex(), Quantity: qty}})
	addr, _ := json.Marshal(models.Address{Street: "12 MG Road", City: "Pune", State: "MH", PostalCode: "411001"})
	return &stripe.CheckoutSession{
		ID:          sessionID,
		AmountTotal: amountTotal,
		Metadata: map[string]string{
			"customerId":      customerID.Hex(),
			"cartItems":       string(cart),
			"shippingAddress": string(addr),
		},
	}
}

func TestHandleCompletedSession(t *testing.T) {
	ctx := context.Background()

	customerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	t.Run("CreatesOrderOnce", func(t *testing.T) {
		svc, products, _, orders, _ := newTestCheckout()

		sess := completedSession("cs_done_1", customerID, productID, 2, 28600)
		product := &models.Product{ID: productID, Name: "Teak Bowl", Price: 100, Stock: 5}

		orders.On("FindBySessionID", ctx, "cs_done_1").Return(nil, mongo.ErrNoDocuments).Once()
		products.On("FindByID", ctx, productID).Return(product, nil).Once()
		products.On("UpdateStock", ctx, productID, 3).Return(nil).Once()
		orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()

		svc.HandleCompletedSession(ctx, sess)

		orders.AssertExpectations(t)
		products.AssertExpectations(t)

		order := orders.Calls[1].Arguments.Get(1).(*models.Order)
		assert.Equal(t, customerID, order.Customer)
		assert.Equal(t, 286.0, order.TotalAmount)
		assert.Equal(t, "cs_done_1", order.PaymentDetails.SessionID)
		assert.Equal(t, "Paid", order.PaymentDetails.PaymentStatus)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Len(t, order.Items, 1)
		assert.Equal(t, models.OrderItem{Product: productID, Name: "Teak Bowl", Quantity: 2, Price: 100}, order.Items[0])
	})

	t.Run("DuplicateDeliveryIsNoOp", func(t *testing.T) {
		svc, products, _, orders, _ := newTestCheckout()

		sess := completedSession("cs_done_2", customerID, productID, 2, 28600)
		existing := &models.Order{ID: primitive.NewObjectID()}

		orders.On("FindBySessionID", ctx, "cs_done_2").Return(existing, nil).Once()

		svc.HandleCompletedSession(ctx, sess)

		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		products.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StockClampedAtZero", func(t *testing.T) {
		svc, products, _, orders, _ := newTestCheckout()

		sess := completedSession("cs_done_3", customerID, productID, 2, 28600)
		product := &models.Product{ID: productID, Name: "Teak Bowl", Price: 100, Stock: 1}

		orders.On("FindBySessionID", ctx, "cs_done_3").Return(nil, mongo.ErrNoDocuments).Once()
		products.On("FindByID", ctx, productID).Return(product, nil).Once()
		products.On("UpdateStock", ctx, productID, 0).Return(nil).Once()
		orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()

		svc.HandleCompletedSession(ctx, sess)

		products.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("MissingMetadata", func(t *testing.T) {
		svc, products, _, orders, _ := newTestCheckout()

		sess := &stripe.CheckoutSession{ID: "cs_rogue", AmountTotal: 1000, Metadata: map[string]string{}}

		svc.HandleCompletedSession(ctx, sess)

		orders.AssertNotCalled(t, "FindBySessionID", mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		products.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AllProductsVanished", func(t *testing.T) {
		svc, products, _, orders, _ := newTestCheckout()

		sess := completedSession("cs_done_4", customerID, productID, 2, 28600)

		orders.On("FindBySessionID", ctx, "cs_done_4").Return(nil, mongo.ErrNoDocuments).Once()
		products.On("FindByID", ctx, productID).Return(nil, mongo.ErrNoDocuments).Once()

		svc.HandleCompletedSession(ctx, sess)

		// No degenerate empty order.
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
