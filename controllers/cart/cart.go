package cartControllers

import (
	"crypto/rand"
	"encoding/gob"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	sessionName = "bigcorp_session"
	cartKey     = "cart"
)

func init() {
	// The cart lives in the cookie session as product id -> quantity.
	gob.Register(map[uint]int{})
}

// NewSessionStore builds the cookie store backing guest and user carts.
// SESSION_SECRET should be set in production; a random key means carts do not
// survive a restart, which is fine for development.
func NewSessionStore() *sessions.CookieStore {
	secret := []byte(os.Getenv("SESSION_SECRET"))
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	return store
}

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type DeleteItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

type cartLine struct {
	Product  models.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// Contents reads the session cart for the current request.
func Contents(c *gin.Context, store *sessions.CookieStore) map[uint]int {
	session, _ := store.Get(c.Request, sessionName)
	if cart, ok := session.Values[cartKey].(map[uint]int); ok {
		return cart
	}
	return map[uint]int{}
}

func save(c *gin.Context, store *sessions.CookieStore, cart map[uint]int) error {
	session, _ := store.Get(c.Request, sessionName)
	session.Values[cartKey] = cart
	return session.Save(c.Request, c.Writer)
}

// Clear drops the session cart, used after a successful checkout.
func Clear(c *gin.Context, store *sessions.CookieStore) error {
	return save(c, store, map[uint]int{})
}

// ViewCart resolves the session cart against live products and totals it up.
func ViewCart(db *gorm.DB, store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := Contents(c, store)

		lines := make([]cartLine, 0, len(cart))
		total := decimal.Zero
		quantity := 0
		for productID, qty := range cart {
			var product models.Product
			if err := db.Scopes(models.Available).First(&product, productID).Error; err != nil {
				// Hidden or deleted since it was added; skip it.
				continue
			}
			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
			lines = append(lines, cartLine{Product: product, Quantity: qty, Total: lineTotal})
			total = total.Add(lineTotal)
			quantity += qty
		}

		c.JSON(http.StatusOK, gin.H{
			"items":    lines,
			"quantity": quantity,
			"total":    total,
		})
	}
}

// AddToCart adds a product or bumps its quantity.
func AddToCart(db *gorm.DB, store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.Scopes(models.Available).First(&product, input.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		cart := Contents(c, store)
		cart[product.ID] += input.Quantity
		if err := save(c, store, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": product.ID, "quantity": cart[product.ID]})
	}
}

// UpdateCartItem sets a product's quantity outright.
func UpdateCartItem(db *gorm.DB, store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart := Contents(c, store)
		if _, ok := cart[input.ProductID]; !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not in cart"})
			return
		}
		cart[input.ProductID] = input.Quantity
		if err := save(c, store, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": input.ProductID, "quantity": input.Quantity})
	}
}

// DeleteCartItem removes one product line from the cart.
func DeleteCartItem(store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DeleteItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			// Also accept the id as a query param for form-style clients.
			id, convErr := strconv.ParseUint(c.Query("product_id"), 10, 64)
			if convErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
				return
			}
			input.ProductID = uint(id)
		}

		cart := Contents(c, store)
		delete(cart, input.ProductID)
		if err := save(c, store, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from cart"})
	}
}
