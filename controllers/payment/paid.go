package paymentController

import (
	"errors"

	orderController "github.com/rodionpotapov/bigcorp-api/controllers/order"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/rodionpotapov/bigcorp-api/tasks"
	"gorm.io/gorm"
)

var ErrAlreadyPaid = errors.New("order is already paid")

// MarkOrderPaid flips the paid flag for a gateway-confirmed order, notifies
// websocket listeners and mails the customer. Safe to call twice: the second
// call is a no-op with ErrAlreadyPaid.
func MarkOrderPaid(db *gorm.DB, mailer *tasks.Mailer, orderID uint) error {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if order.Paid {
			return ErrAlreadyPaid
		}
		order.Paid = true
		return tx.Model(&order).Update("paid", true).Error
	})
	if err != nil {
		return err
	}

	orderController.BroadcastOrderUpdate(&order)

	if order.UserID != nil {
		var user models.User
		if db.First(&user, *order.UserID).Error == nil {
			mailer.Enqueue(user.Email, "Payment received",
				"Your payment of "+order.Amount.StringFixed(2)+" was received. Thank you!")
		}
	}
	return nil
}
