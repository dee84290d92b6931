package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestDiscountedPriceZeroDiscount(t *testing.T) {
	// With no discount the price is still rounded to a whole unit.
	p := Product{Price: mustDecimal(t, "99.99"), Discount: 0}
	assert.True(t, p.DiscountedPrice().Equal(decimal.NewFromInt(100)),
		"got %s", p.DiscountedPrice())

	p = Product{Price: mustDecimal(t, "100.00"), Discount: 0}
	assert.True(t, p.DiscountedPrice().Equal(decimal.NewFromInt(100)))
}

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		price    string
		discount int
		want     int64
	}{
		{"100.00", 15, 85},
		{"100.00", 100, 0},
		{"10.00", 33, 7},  // 6.70 rounds up
		{"10.00", 37, 6},  // 6.30 rounds down
		{"50.00", 50, 25},
	}
	for _, tc := range cases {
		p := Product{Price: mustDecimal(t, tc.price), Discount: tc.discount}
		got := p.DiscountedPrice()
		assert.True(t, got.Equal(decimal.NewFromInt(tc.want)),
			"price=%s discount=%d: want %d, got %s", tc.price, tc.discount, tc.want, got)
	}
}

func TestDiscountConstraintOnProduct(t *testing.T) {
	db := newTestDB(t)
	category := Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, CreateCategory(db, &category))

	bad := Product{
		CategoryID: category.ID,
		Title:      "Overdiscounted",
		Brand:      "Acme",
		Slug:       "overdiscounted",
		Price:      mustDecimal(t, "10.00"),
		Discount:   150,
	}
	assert.Error(t, db.Create(&bad).Error, "discount above 100 must be rejected")
}

func TestCreateHiddenProductStaysHidden(t *testing.T) {
	db := newTestDB(t)
	category := Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, CreateCategory(db, &category))

	// Available:false must survive the insert; a column default must not
	// overwrite the zero value.
	hidden := Product{
		CategoryID: category.ID, Title: "Backroom", Brand: "Acme",
		Slug: "backroom", Price: mustDecimal(t, "10.00"), Available: false,
	}
	require.NoError(t, db.Create(&hidden).Error)

	var stored Product
	require.NoError(t, db.First(&stored, hidden.ID).Error)
	assert.False(t, stored.Available)
}

func TestAvailableScope(t *testing.T) {
	db := newTestDB(t)
	category := Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, CreateCategory(db, &category))

	visible := Product{
		CategoryID: category.ID, Title: "Visible", Brand: "Acme",
		Slug: "visible", Price: mustDecimal(t, "10.00"), Available: true,
	}
	hidden := Product{
		CategoryID: category.ID, Title: "Hidden", Brand: "Acme",
		Slug: "hidden", Price: mustDecimal(t, "10.00"), Available: false,
	}
	require.NoError(t, db.Create(&visible).Error)
	require.NoError(t, db.Create(&hidden).Error)

	var products []Product
	require.NoError(t, db.Scopes(Available).Find(&products).Error)
	require.Len(t, products, 1)
	assert.Equal(t, "Visible", products[0].Title)

	// Flipping the flag is immediately reflected; the filter is query-time.
	require.NoError(t, db.Model(&hidden).Update("available", true).Error)
	require.NoError(t, db.Scopes(Available).Find(&products).Error)
	assert.Len(t, products, 2)
}

func TestImageURLPlaceholder(t *testing.T) {
	p := Product{}
	assert.Equal(t, DefaultProductImage, p.ImageURL())

	p.Image = "/uploads/products/123_cam.jpg"
	assert.Equal(t, "/uploads/products/123_cam.jpg", p.ImageURL())
}
