package models

import "time"

// Review is a user-submitted rating for a product. Ratings are whole stars,
// 1 through 5, enforced at the storage level.
type Review struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	Product     Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Rating      int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Content     string    `gorm:"type:text" json:"content"`
	CreatedByID uint      `gorm:"not null;index" json:"created_by"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
