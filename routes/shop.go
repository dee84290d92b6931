package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	cartControllers "github.com/rodionpotapov/bigcorp-api/controllers/cart"
	productControllers "github.com/rodionpotapov/bigcorp-api/controllers/product"
	reviewControllers "github.com/rodionpotapov/bigcorp-api/controllers/review"
	"gorm.io/gorm"
)

// SetupShopRoutes registers the public storefront endpoints.
func SetupShopRoutes(r *gin.Engine, db *gorm.DB, store *sessions.CookieStore) {
	r.GET("/products", productControllers.ListProducts(db))                        // GET /products?page=N
	r.GET("/products/:slug", productControllers.GetProductBySlug(db))              // GET /products/:slug
	r.GET("/products/:slug/reviews", reviewControllers.ListProductReviews(db))     // GET /products/:slug/reviews
	r.GET("/categories", productControllers.ListCategories(db))                    // GET /categories
	r.GET("/categories/:slug", productControllers.GetCategory(db))                 // GET /categories/:slug
	r.GET("/categories/:slug/products", productControllers.ListProductsByCategory(db)) // GET /categories/:slug/products

	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("/", cartControllers.ViewCart(db, store))          // GET /cart
		cartGroup.POST("/add", cartControllers.AddToCart(db, store))     // POST /cart/add
		cartGroup.POST("/update", cartControllers.UpdateCartItem(db, store)) // POST /cart/update
		cartGroup.POST("/delete", cartControllers.DeleteCartItem(store)) // POST /cart/delete
	}
}
