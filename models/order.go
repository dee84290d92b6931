package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a purchase record. Amount is the charged total captured at
// checkout; the storage layer rejects negatives. Once an order is historical
// it is only ever touched again to flip Paid.
type Order struct {
	ID                uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            *uint            `gorm:"index" json:"user_id"`
	User              *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ShippingAddressID *uint            `json:"shipping_address_id"`
	ShippingAddress   *ShippingAddress `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:CASCADE" json:"shipping_address,omitempty"`
	Amount            decimal.Decimal  `gorm:"type:decimal(9,2);not null;check:chk_orders_amount,amount >= 0" json:"amount"`
	Items             []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt         time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Paid              bool             `gorm:"not null;default:false" json:"paid"`
	Discount          *int             `gorm:"check:chk_orders_discount,discount >= 0 AND discount <= 100" json:"discount"`
}

// TotalBeforeDiscount folds price × quantity over the loaded line items.
// Callers must have preloaded Items.
func (o *Order) TotalBeforeDiscount() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Cost())
	}
	return total
}

// DiscountAmount is the order-level percentage cut of the pre-discount total,
// zero when no discount is set.
func (o *Order) DiscountAmount() decimal.Decimal {
	total := o.TotalBeforeDiscount()
	if o.Discount == nil || *o.Discount == 0 || total.IsZero() {
		return decimal.Zero
	}
	return total.Mul(decimal.NewFromInt(int64(*o.Discount))).Div(decimal.NewFromInt(100))
}

// TotalCost is what the customer pays. Never negative: discount is capped at
// 100 and the pre-discount total is a sum of non-negative line costs.
func (o *Order) TotalCost() decimal.Decimal {
	return o.TotalBeforeDiscount().Sub(o.DiscountAmount())
}

// OrderItem is one product line within an order. Price is the unit price
// captured at purchase time, deliberately decoupled from Product.Price so
// historical orders survive future price edits.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"index" json:"order_id"`
	// No default:1 tag: gorm would swallow a zero Quantity on insert and let
	// the column default dodge the CHECK constraint.
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	ProductID *uint           `gorm:"index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	UserID    *uint           `json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Price     decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"price"`
}

// Cost is the line total: unit price × quantity.
func (item *OrderItem) Cost() decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// TotalQuantityForProduct sums quantity across every order line referencing
// the product. A product that was never ordered yields 0, not an error.
func TotalQuantityForProduct(db *gorm.DB, productID uint) (int64, error) {
	var total int64
	err := db.Model(&OrderItem{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// AverageItemPrice is the mean unit price across all order lines. It returns
// nil when no lines exist; callers must handle the empty catalog case.
func AverageItemPrice(db *gorm.DB) (*decimal.Decimal, error) {
	var avg decimal.NullDecimal
	err := db.Model(&OrderItem{}).Select("AVG(price)").Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Decimal, nil
}
