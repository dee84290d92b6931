package orderController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	cartControllers "github.com/rodionpotapov/bigcorp-api/controllers/cart"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.User, *models.Product, *models.Product) {
	t.Helper()

	user := &models.User{Username: "buyer", Email: "buyer@example.com", Active: true}
	require.NoError(t, user.SetPassword("test-password-1"))
	require.NoError(t, db.Create(user).Error)

	category := &models.Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, models.CreateCategory(db, category))

	widget := &models.Product{
		CategoryID: category.ID, Title: "Widget", Brand: "Acme",
		Slug: "widget", Price: decimal.RequireFromString("10.00"), Available: true,
	}
	require.NoError(t, db.Create(widget).Error)

	gizmo := &models.Product{
		CategoryID: category.ID, Title: "Gizmo", Brand: "Acme",
		Slug: "gizmo", Price: decimal.RequireFromString("5.00"), Available: true,
	}
	require.NoError(t, db.Create(gizmo).Error)

	return user, widget, gizmo
}

func TestPlaceOrderTotals(t *testing.T) {
	db := newTestDB(t)
	user, widget, gizmo := seedCatalog(t, db)

	discount := 10
	cart := map[uint]int{widget.ID: 2, gizmo.ID: 1}

	order, err := PlaceOrder(db, user.ID, cart, &discount, nil)
	require.NoError(t, err)

	assert.True(t, order.Amount.Equal(decimal.RequireFromString("22.50")),
		"got %s", order.Amount)
	assert.Len(t, order.Items, 2)
	assert.False(t, order.Paid)

	// Line prices are snapshots of the product list price.
	for _, item := range order.Items {
		switch *item.ProductID {
		case widget.ID:
			assert.True(t, item.Price.Equal(widget.Price))
			assert.Equal(t, 2, item.Quantity)
		case gizmo.ID:
			assert.True(t, item.Price.Equal(gizmo.Price))
			assert.Equal(t, 1, item.Quantity)
		default:
			t.Fatalf("unexpected product id %d", *item.ProductID)
		}
	}

	// A default shipping address was synthesized for the user.
	require.NotNil(t, order.ShippingAddressID)
	var address models.ShippingAddress
	require.NoError(t, db.First(&address, *order.ShippingAddressID).Error)
	assert.Equal(t, "Fill Address", address.StreetAddress)
}

func TestPlaceOrderPriceSnapshotIsStable(t *testing.T) {
	db := newTestDB(t)
	user, widget, _ := seedCatalog(t, db)

	order, err := PlaceOrder(db, user.ID, map[uint]int{widget.ID: 1}, nil, nil)
	require.NoError(t, err)

	// Future price edits must not touch historical orders.
	require.NoError(t, db.Model(widget).Update("price", decimal.RequireFromString("99.00")).Error)

	var reloaded models.Order
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, reloaded.Amount.Equal(decimal.RequireFromString("10.00")))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	user, _, _ := seedCatalog(t, db)

	_, err := PlaceOrder(db, user.ID, map[uint]int{}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderInvalidDiscount(t *testing.T) {
	db := newTestDB(t)
	user, widget, _ := seedCatalog(t, db)

	discount := 101
	_, err := PlaceOrder(db, user.ID, map[uint]int{widget.ID: 1}, &discount, nil)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestCheckoutHandler(t *testing.T) {
	db := newTestDB(t)
	user, widget, _ := seedCatalog(t, db)

	t.Setenv("SMTP_HOST", "")
	mailer, err := tasks.NewMailerFromEnv()
	require.NoError(t, err)
	t.Cleanup(mailer.Close)

	store := cartControllers.NewSessionStore()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/cart/add", cartControllers.AddToCart(db, store))
	r.GET("/cart", cartControllers.ViewCart(db, store))
	r.POST("/checkout", func(c *gin.Context) {
		c.Set("user_id", user.ID)
	}, Checkout(db, store, mailer))

	var cookies []*http.Cookie
	do := func(method, path string, payload interface{}) *httptest.ResponseRecorder {
		body := bytes.NewBuffer(nil)
		if payload != nil {
			raw, err := json.Marshal(payload)
			require.NoError(t, err)
			body = bytes.NewBuffer(raw)
		}
		req := httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if set := w.Result().Cookies(); len(set) > 0 {
			cookies = set
		}
		return w
	}

	w := do(http.MethodPost, "/cart/add", cartControllers.CartItemInput{ProductID: widget.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(http.MethodPost, "/checkout", CheckoutRequest{})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, db.Preload("Items").Where("user_id = ?", user.ID).First(&order).Error)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Amount.Equal(decimal.RequireFromString("20.00")), "got %s", order.Amount)
	assert.False(t, order.Paid)

	// The cart is empty afterwards.
	w = do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Quantity int `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 0, view.Quantity)
}

func TestPlaceOrderUnavailableProductAborts(t *testing.T) {
	db := newTestDB(t)
	user, widget, gizmo := seedCatalog(t, db)

	require.NoError(t, db.Model(gizmo).Update("available", false).Error)

	_, err := PlaceOrder(db, user.ID, map[uint]int{widget.ID: 1, gizmo.ID: 1}, nil, nil)
	require.Error(t, err)

	// Nothing was half-committed.
	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(0), items)
}
