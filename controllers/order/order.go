package orderController

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	cartControllers "github.com/rodionpotapov/bigcorp-api/controllers/cart"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
)

type CheckoutRequest struct {
	ShippingAddressID *uint `json:"shipping_address_id"`
	Discount          *int  `json:"discount"`
}

// PlaceOrder converts cart lines into an Order plus its OrderItems inside one
// transaction. The unit price of every line is snapshotted from the product's
// current list price, and the order amount is the discounted total. Any
// failure rolls the whole thing back.
func PlaceOrder(db *gorm.DB, userID uint, cart map[uint]int, discount *int, shippingAddressID *uint) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	if discount != nil && (*discount < 0 || *discount > 100) {
		return nil, ErrInvalidDiscount
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if shippingAddressID == nil {
			// Make sure the user always has an address attached; synthesize
			// the placeholder when none exists yet.
			var address models.ShippingAddress
			err := tx.Where("user_id = ?", userID).First(&address).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				created, createErr := models.CreateDefaultShippingAddress(tx, userID)
				if createErr != nil {
					return createErr
				}
				address = *created
			} else if err != nil {
				return err
			}
			shippingAddressID = &address.ID
		}

		items := make([]models.OrderItem, 0, len(cart))
		for productID, quantity := range cart {
			var product models.Product
			if err := tx.Scopes(models.Available).First(&product, productID).Error; err != nil {
				return err
			}
			pid := product.ID
			uid := userID
			items = append(items, models.OrderItem{
				Quantity:  quantity,
				ProductID: &pid,
				UserID:    &uid,
				Price:     product.Price,
			})
		}

		uid := userID
		order = models.Order{
			UserID:            &uid,
			ShippingAddressID: shippingAddressID,
			Items:             items,
			Discount:          discount,
		}
		order.Amount = order.TotalCost().Round(2)

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Checkout turns the session cart into an order for the authenticated user
// and clears the cart on success.
func Checkout(db *gorm.DB, store *sessions.CookieStore, mailer *tasks.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cart := cartControllers.Contents(c, store)
		order, err := PlaceOrder(db, userID, cart, req.Discount, req.ShippingAddressID)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidDiscount):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart contains an unavailable product"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			}
			return
		}

		var user models.User
		if db.First(&user, userID).Error == nil {
			mailer.Enqueue(user.Email, "Order received",
				"Your order has been placed. Total: "+order.Amount.StringFixed(2))
		}
		BroadcastOrderUpdate(order)

		if err := cartControllers.Clear(c, store); err != nil {
			// The order exists and the customer was notified; a stale cart
			// cookie is not worth failing over.
			log.Printf("failed to clear cart after order %d: %v", order.ID, err)
		}

		c.JSON(http.StatusCreated, order)
	}
}
