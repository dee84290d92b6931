package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/sessions"
	"github.com/rodionpotapov/bigcorp-api/models"
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
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))
	return db
}

func newCartRouter(db *gorm.DB, store *sessions.CookieStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cart", ViewCart(db, store))
	r.POST("/cart", AddToCart(db, store))
	r.PUT("/cart", UpdateCartItem(db, store))
	r.DELETE("/cart", DeleteCartItem(store))
	return r
}

func seedProduct(t *testing.T, db *gorm.DB, price string) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Gadgets", Slug: fmt.Sprintf("gadgets-%s", price)}
	require.NoError(t, models.CreateCategory(db, category))
	product := &models.Product{
		CategoryID: category.ID, Title: "Widget", Brand: "Acme",
		Slug: fmt.Sprintf("widget-%s", price), Price: decimal.RequireFromString(price), Available: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// session carries cookies between requests the way a browser would.
type session struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func (s *session) do(method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	s.t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		s.cookies = set
	}

	parsed := map[string]json.RawMessage{}
	if w.Code == http.StatusOK {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (s *session) cartTotal(body map[string]json.RawMessage) (decimal.Decimal, int) {
	s.t.Helper()
	var total decimal.Decimal
	require.NoError(s.t, json.Unmarshal(body["total"], &total))
	var quantity int
	require.NoError(s.t, json.Unmarshal(body["quantity"], &quantity))
	return total, quantity
}

func TestCartAddViewUpdateDelete(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "10.00")
	s := &session{t: t, router: newCartRouter(db, NewSessionStore())}

	// Add two units.
	w, _ := s.do(http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := s.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	total, quantity := s.cartTotal(body)
	assert.Equal(t, 2, quantity)
	assert.True(t, total.Equal(decimal.RequireFromString("20.00")), "got %s", total)

	// Adding again bumps the quantity instead of replacing it.
	w, _ = s.do(http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)
	_, body = s.do(http.MethodGet, "/cart", nil)
	_, quantity = s.cartTotal(body)
	assert.Equal(t, 3, quantity)

	// Update sets the quantity outright.
	w, _ = s.do(http.MethodPut, "/cart", CartItemInput{ProductID: product.ID, Quantity: 5})
	require.Equal(t, http.StatusOK, w.Code)
	_, body = s.do(http.MethodGet, "/cart", nil)
	total, quantity = s.cartTotal(body)
	assert.Equal(t, 5, quantity)
	assert.True(t, total.Equal(decimal.RequireFromString("50.00")), "got %s", total)

	// Delete empties the cart.
	w, _ = s.do(http.MethodDelete, "/cart", DeleteItemInput{ProductID: product.ID})
	require.Equal(t, http.StatusOK, w.Code)
	_, body = s.do(http.MethodGet, "/cart", nil)
	total, quantity = s.cartTotal(body)
	assert.Equal(t, 0, quantity)
	assert.True(t, total.IsZero())
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	s := &session{t: t, router: newCartRouter(db, NewSessionStore())}

	w, _ := s.do(http.MethodPost, "/cart", CartItemInput{ProductID: 9999, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddToCartHiddenProductRejected(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "10.00")
	require.NoError(t, db.Model(product).Update("available", false).Error)

	s := &session{t: t, router: newCartRouter(db, NewSessionStore())}
	w, _ := s.do(http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMissingCartLine(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "10.00")

	s := &session{t: t, router: newCartRouter(db, NewSessionStore())}
	w, _ := s.do(http.MethodPut, "/cart", CartItemInput{ProductID: product.ID, Quantity: 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewCartSkipsHiddenProducts(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "10.00")
	s := &session{t: t, router: newCartRouter(db, NewSessionStore())}

	w, _ := s.do(http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	// The product goes off sale after it was added.
	require.NoError(t, db.Model(product).Update("available", false).Error)

	_, body := s.do(http.MethodGet, "/cart", nil)
	total, quantity := s.cartTotal(body)
	assert.Equal(t, 0, quantity)
	assert.True(t, total.IsZero())
}
