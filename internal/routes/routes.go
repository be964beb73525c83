package routes

import (
	"github.com/gin-gonic/gin"

	"mahzskin_back_end/internal/currency"
	"mahzskin_back_end/internal/handlers"
	pa "mahzskin_back_end/internal/handlers/payement"
	"mahzskin_back_end/internal/handlers/product"
	"mahzskin_back_end/internal/handlers/user"
	"mahzskin_back_end/internal/middleware"
	"mahzskin_back_end/internal/store"
)

func RegisterRoutes(r *gin.Engine, st *store.Store, rates *currency.Service) {
	user.Init(st, rates)

	api := r.Group("/api")

	// Authentification
	auth := api.Group("/auth")
	auth.POST("/signup", user.CreateUser)
	auth.POST("/login", middleware.LoginRateLimit(), user.Login)
	auth.GET("/me", middleware.AuthRequired(), user.Me)
	auth.POST("/logout", middleware.AuthRequired(), user.Logout)

	// Catalogue (public)
	api.GET("/products", product.ListProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)

	// Write path produits (admin)
	admin := api.Group("/products", middleware.AuthRequired(), middleware.RequireAdmin())
	admin.POST("", product.CreateProduct)
	admin.PUT("/:id", product.UpdateProduct)
	admin.DELETE("/:id", product.DeleteProduct)

	// Panier (authentifié)
	cart := api.Group("/cart", middleware.AuthRequired())
	cart.GET("", user.GetCart)
	cart.GET("/summary", user.GetCartSummary)
	cart.POST("/add", user.AddToCart)
	cart.PUT("/:productId", user.UpdateCartQuantity)
	cart.DELETE("/:productId", user.RemoveFromCart)
	cart.DELETE("", user.ClearCart)
	cart.GET("/ws", user.CartWebSocket)

	// Wishlist (authentifié)
	wishlist := api.Group("/wishlist", middleware.AuthRequired())
	wishlist.GET("", user.GetWishlist)
	wishlist.POST("/toggle", user.ToggleWishlist)
	wishlist.GET("/:productId", user.CheckWishlist)

	// Devises
	api.GET("/currency/rates", user.GetRates)
	api.GET("/currency/preference", middleware.AuthRequired(), user.GetCurrencyPreference)
	api.PUT("/currency/preference", middleware.AuthRequired(), user.SetCurrencyPreference)

	// Checkout (redirection Stripe)
	api.POST("/checkout", middleware.AuthRequired(), pa.Checkout)

	// Formulaire de contact
	api.POST("/contact", middleware.ContactRateLimit(), handlers.ContactForm)
}
