package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultProductImage is served for products uploaded without a picture.
const DefaultProductImage = "/uploads/products/def.jpg"

// Product is a sellable item. Products are never deleted from the storefront;
// they are hidden by flipping Available off.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string          `gorm:"size:250;not null" json:"title"`
	Brand       string          `gorm:"size:250;not null" json:"brand"`
	Description string          `gorm:"type:text" json:"description"`
	Slug        string          `gorm:"size:250;not null;index" json:"slug"`
	Price       decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"price"`
	Image       string          `gorm:"size:500" json:"image"`
	// No column default here: gorm drops zero-valued fields that carry a
	// default tag on insert, which would turn Available:false into true.
	Available   bool            `gorm:"not null" json:"available"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Discount    int             `gorm:"not null;default:0;check:chk_products_discount,discount >= 0 AND discount <= 100" json:"discount"`
}

// DiscountedPrice applies the percentage discount and rounds to the nearest
// whole currency unit, half away from zero.
func (p *Product) DiscountedPrice() decimal.Decimal {
	discount := p.Price.Mul(decimal.NewFromInt(int64(p.Discount))).Div(decimal.NewFromInt(100))
	return p.Price.Sub(discount).Round(0)
}

// ImageURL falls back to the placeholder for products without an upload.
func (p *Product) ImageURL() string {
	if p.Image == "" {
		return DefaultProductImage
	}
	return p.Image
}

// Available narrows a Product query to storefront-visible rows. It is the
// read-side "proxy" over the products table: same storage, filtered view,
// always consistent with the stored flag. Use with db.Scopes(models.Available).
func Available(db *gorm.DB) *gorm.DB {
	return db.Where("available = ?", true)
}
