package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestOrderTotalsScenario(t *testing.T) {
	// Two items (10.00 × 2) and (5.00 × 1) with a 10% order discount.
	order := Order{
		Items: []OrderItem{
			{Price: mustDecimal(t, "10.00"), Quantity: 2},
			{Price: mustDecimal(t, "5.00"), Quantity: 1},
		},
		Discount: intPtr(10),
	}

	assert.True(t, order.TotalBeforeDiscount().Equal(mustDecimal(t, "25.00")),
		"got %s", order.TotalBeforeDiscount())
	assert.True(t, order.DiscountAmount().Equal(mustDecimal(t, "2.50")),
		"got %s", order.DiscountAmount())
	assert.True(t, order.TotalCost().Equal(mustDecimal(t, "22.50")),
		"got %s", order.TotalCost())
}

func TestOrderTotalsWithoutDiscount(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Price: mustDecimal(t, "19.99"), Quantity: 3},
		},
	}
	assert.True(t, order.TotalCost().Equal(order.TotalBeforeDiscount()))

	order.Discount = intPtr(0)
	assert.True(t, order.TotalCost().Equal(order.TotalBeforeDiscount()))
	assert.True(t, order.DiscountAmount().IsZero())
}

func TestOrderTotalsFullDiscount(t *testing.T) {
	order := Order{
		Items:    []OrderItem{{Price: mustDecimal(t, "42.00"), Quantity: 1}},
		Discount: intPtr(100),
	}
	assert.True(t, order.TotalCost().IsZero(), "got %s", order.TotalCost())
}

func TestOrderItemCost(t *testing.T) {
	item := OrderItem{Price: mustDecimal(t, "7.25"), Quantity: 4}
	assert.True(t, item.Cost().Equal(mustDecimal(t, "29.00")))
}

func TestQuantityConstraint(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")

	order := Order{UserID: &user.ID, Amount: mustDecimal(t, "10.00")}
	require.NoError(t, db.Create(&order).Error)

	zero := OrderItem{OrderID: order.ID, Quantity: 0, Price: mustDecimal(t, "10.00")}
	assert.Error(t, db.Create(&zero).Error, "zero quantity must be rejected")

	negative := OrderItem{OrderID: order.ID, Quantity: -2, Price: mustDecimal(t, "10.00")}
	assert.Error(t, db.Create(&negative).Error, "negative quantity must be rejected")

	ok := OrderItem{OrderID: order.ID, Quantity: 1, Price: mustDecimal(t, "10.00")}
	assert.NoError(t, db.Create(&ok).Error)
}

func TestAmountConstraint(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")

	negative := Order{UserID: &user.ID, Amount: mustDecimal(t, "-1.00")}
	assert.Error(t, db.Create(&negative).Error, "negative amount must be rejected")

	zero := Order{UserID: &user.ID, Amount: decimal.Zero}
	assert.NoError(t, db.Create(&zero).Error, "zero amount is allowed")
}

func TestOrderDiscountConstraint(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")

	tooBig := Order{UserID: &user.ID, Amount: mustDecimal(t, "10.00"), Discount: intPtr(101)}
	assert.Error(t, db.Create(&tooBig).Error)

	unset := Order{UserID: &user.ID, Amount: mustDecimal(t, "10.00")}
	assert.NoError(t, db.Create(&unset).Error, "null discount passes the check")
}

func TestTotalQuantityForProduct(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")

	category := Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, CreateCategory(db, &category))
	product := Product{
		CategoryID: category.ID, Title: "Widget", Brand: "Acme",
		Slug: "widget", Price: mustDecimal(t, "10.00"), Available: true,
	}
	require.NoError(t, db.Create(&product).Error)

	// Never ordered: 0, not an error.
	total, err := TotalQuantityForProduct(db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	for _, qty := range []int{2, 3} {
		order := Order{UserID: &user.ID, Amount: mustDecimal(t, "10.00")}
		require.NoError(t, db.Create(&order).Error)
		item := OrderItem{
			OrderID: order.ID, Quantity: qty,
			ProductID: &product.ID, UserID: &user.ID,
			Price: mustDecimal(t, "10.00"),
		}
		require.NoError(t, db.Create(&item).Error)
	}

	total, err = TotalQuantityForProduct(db, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestAverageItemPrice(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")

	// Empty table: nil, not a division error.
	avg, err := AverageItemPrice(db)
	require.NoError(t, err)
	assert.Nil(t, avg)

	order := Order{UserID: &user.ID, Amount: mustDecimal(t, "30.00")}
	require.NoError(t, db.Create(&order).Error)
	for _, price := range []string{"10.00", "20.00"} {
		item := OrderItem{OrderID: order.ID, Quantity: 1, Price: mustDecimal(t, price)}
		require.NoError(t, db.Create(&item).Error)
	}

	avg, err = AverageItemPrice(db)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.True(t, avg.Equal(mustDecimal(t, "15.00")), "got %s", avg)
}

func TestOrderCascadeDeletesItems(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "buyer@example.com")

	order := Order{UserID: &user.ID, Amount: mustDecimal(t, "10.00")}
	require.NoError(t, db.Create(&order).Error)
	item := OrderItem{OrderID: order.ID, Quantity: 1, Price: mustDecimal(t, "10.00")}
	require.NoError(t, db.Create(&item).Error)

	require.NoError(t, db.Delete(&order).Error)

	var count int64
	require.NoError(t, db.Model(&OrderItem{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count, "items must not outlive their order")
}
