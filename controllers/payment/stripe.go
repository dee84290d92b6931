package paymentController

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rodionpotapov/bigcorp-api/middleware"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// stripeSessionResponse is the slice of the checkout session object we use.
type stripeSessionResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func stripeConfig() (secretKey, apiURL string, err error) {
	secretKey = os.Getenv("STRIPE_SECRET_KEY")
	apiURL = os.Getenv("STRIPE_API_URL")
	if apiURL == "" {
		apiURL = "https://api.stripe.com/v1"
	}
	if secretKey == "" {
		return "", "", errors.New("stripe configuration missing")
	}
	return secretKey, apiURL, nil
}

// createStripeSession asks Stripe for a hosted checkout session covering the
// order amount and returns the redirect URL.
func createStripeSession(order *models.Order) (string, error) {
	secretKey, apiURL, err := stripeConfig()
	if err != nil {
		return "", err
	}

	// Stripe takes the amount in minor units.
	cents := order.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", os.Getenv("PAYMENT_SUCCESS_URL"))
	form.Set("cancel_url", os.Getenv("PAYMENT_FAILURE_URL"))
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][product_data][name]", fmt.Sprintf("Order #%d", order.ID))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(cents, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(order.ID), 10))

	req, err := http.NewRequest(http.MethodPost, apiURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "build stripe request")
	}
	req.Header.Set("Authorization", "Bearer "+secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "call stripe")
	}
	defer resp.Body.Close()

	var session stripeSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", errors.Wrap(err, "decode stripe response")
	}
	if session.Error != nil {
		return "", errors.Errorf("stripe error: %s", session.Error.Message)
	}
	if session.URL == "" {
		return "", errors.New("stripe returned no checkout URL")
	}
	return session.URL, nil
}

// CreateStripeSession starts a Stripe hosted-checkout flow for one of the
// user's unpaid orders. POST body: {"order_id": N}.
func CreateStripeSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadPayableOrder(c, db)
		if !ok {
			return
		}

		redirectURL, err := createStripeSession(order)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "payment_url": redirectURL})
	}
}

// StripeWebhook handles checkout.session.completed events. The signature was
// already verified by middleware.StripeWebhookAuth.
func StripeWebhook(db *gorm.DB, mailer *tasks.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event stripeEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
			return
		}
		if event.Type != "checkout.session.completed" {
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}

		orderID, err := strconv.ParseUint(event.Data.Object.Metadata["order_id"], 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order_id metadata"})
			return
		}

		if err := MarkOrderPaid(db, mailer, uint(orderID)); err != nil && !errors.Is(err, ErrAlreadyPaid) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark order paid"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order marked paid"})
	}
}

type payOrderRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// loadPayableOrder binds the order id, checks ownership and that the order is
// still unpaid. Writes the error response itself when it returns false.
func loadPayableOrder(c *gin.Context, db *gorm.DB) (*models.Order, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	var req payOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	if order.Paid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order is already paid"})
		return nil, false
	}
	return &order, true
}
