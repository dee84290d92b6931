package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRatingBounds(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "reviewer@example.com")

	category := Category{Name: "Gadgets", Slug: "gadgets"}
	require.NoError(t, CreateCategory(db, &category))
	product := Product{
		CategoryID: category.ID, Title: "Widget", Brand: "Acme",
		Slug: "widget", Price: mustDecimal(t, "10.00"), Available: true,
	}
	require.NoError(t, db.Create(&product).Error)

	for _, rating := range []int{0, 6, -1} {
		review := Review{ProductID: product.ID, Rating: rating, Content: "meh", CreatedByID: user.ID}
		assert.Error(t, db.Create(&review).Error, "rating %d must be rejected", rating)
	}

	ok := Review{ProductID: product.ID, Rating: 5, Content: "great", CreatedByID: user.ID}
	assert.NoError(t, db.Create(&ok).Error)
}
