package models

import "gorm.io/gorm"

// ShippingAddress holds postal and contact data for one user. A user may be
// created without one; checkout synthesizes a placeholder on first use.
type ShippingAddress struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName         string `gorm:"size:250;not null" json:"full_name"`
	Email            string `gorm:"size:254;not null" json:"email"`
	StreetAddress    string `gorm:"size:250;not null" json:"street_address"`
	ApartmentAddress string `gorm:"size:250;not null" json:"apartment_address"`
	Country          string `gorm:"size:100" json:"country"`
	ZipCode          string `gorm:"size:100" json:"zip_code"`
	City             string `gorm:"size:250" json:"city"`
	UserID           uint   `gorm:"not null;index" json:"user_id"`
	User             User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// CreateDefaultShippingAddress persists the "Fill Address" sentinel record for
// a user that has no address yet, so downstream flows always have one to show.
func CreateDefaultShippingAddress(db *gorm.DB, userID uint) (*ShippingAddress, error) {
	address := &ShippingAddress{
		UserID:           userID,
		FullName:         "No name",
		Email:            "example@mail.com",
		StreetAddress:    "Fill Address",
		ApartmentAddress: "Fill Address",
	}
	if err := db.Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}
