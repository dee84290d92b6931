package paymentController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

type yookassaPayment struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Confirmation struct {
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation"`
	Metadata map[string]string `json:"metadata"`
}

type yookassaEvent struct {
	Event  string          `json:"event"`
	Object yookassaPayment `json:"object"`
}

func yookassaConfig() (shopID, secretKey, apiURL string, err error) {
	shopID = os.Getenv("YOOKASSA_SHOP_ID")
	secretKey = os.Getenv("YOOKASSA_SECRET_KEY")
	apiURL = os.Getenv("YOOKASSA_API_URL")
	if apiURL == "" {
		apiURL = "https://api.yookassa.ru/v3"
	}
	if shopID == "" || secretKey == "" {
		return "", "", "", errors.New("yookassa configuration missing")
	}
	return shopID, secretKey, apiURL, nil
}

// createYookassaPayment registers the payment and returns the confirmation
// URL the customer is redirected to. Each attempt carries a fresh idempotence
// key so gateway-side retries cannot double-charge.
func createYookassaPayment(order *models.Order) (string, error) {
	shopID, secretKey, apiURL, err := yookassaConfig()
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"amount": map[string]string{
			"value":    order.Amount.StringFixed(2),
			"currency": "RUB",
		},
		"capture": true,
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": os.Getenv("PAYMENT_SUCCESS_URL"),
		},
		"description": "Order #" + strconv.FormatUint(uint64(order.ID), 10),
		"metadata": map[string]string{
			"order_id": strconv.FormatUint(uint64(order.ID), 10),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encode yookassa payload")
	}

	req, err := http.NewRequest(http.MethodPost, apiURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build yookassa request")
	}
	req.SetBasicAuth(shopID, secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "call yookassa")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("yookassa returned status %d", resp.StatusCode)
	}

	var payment yookassaPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return "", errors.Wrap(err, "decode yookassa response")
	}
	if payment.Confirmation.ConfirmationURL == "" {
		return "", errors.New("yookassa returned no confirmation URL")
	}
	return payment.Confirmation.ConfirmationURL, nil
}

// getYookassaPayment re-fetches a payment by id; the webhook handler uses it
// to confirm events instead of trusting the pushed payload.
func getYookassaPayment(paymentID string) (*yookassaPayment, error) {
	shopID, secretKey, apiURL, err := yookassaConfig()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, apiURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build yookassa request")
	}
	req.SetBasicAuth(shopID, secretKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call yookassa")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("yookassa returned status %d", resp.StatusCode)
	}

	var payment yookassaPayment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, errors.Wrap(err, "decode yookassa response")
	}
	return &payment, nil
}

// CreateYookassaPayment starts a YooKassa flow for one of the user's unpaid
// orders. POST body: {"order_id": N}.
func CreateYookassaPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadPayableOrder(c, db)
		if !ok {
			return
		}

		confirmationURL, err := createYookassaPayment(order)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "payment_url": confirmationURL})
	}
}

// YookassaWebhook handles payment.succeeded notifications. YooKassa pushes
// unsigned payloads, so the payment is re-fetched from the API before any
// order is marked paid.
func YookassaWebhook(db *gorm.DB, mailer *tasks.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event yookassaEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
			return
		}
		if event.Event != "payment.succeeded" {
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}

		payment, err := getYookassaPayment(event.Object.ID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to confirm payment"})
			return
		}
		if payment.Status != "succeeded" {
			c.JSON(http.StatusOK, gin.H{"message": "Payment not succeeded, ignored"})
			return
		}

		orderID, err := strconv.ParseUint(payment.Metadata["order_id"], 10, 64)
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
