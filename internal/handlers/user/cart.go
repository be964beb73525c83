package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mahzskin_back_end/internal/cache"
	"mahzskin_back_end/internal/storage"
)

//
// 🛒 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	items, err := Store.Cart(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur lecture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	summary, err := Store.Summary(c.Request.Context(), userID, displayCurrency(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul totaux"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"count":    summary.Count,
		"quantity": summary.QuantitySum,
		"subtotal": summary.Subtotal,
		"currency": summary.Currency,
	})
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	product, err := cache.GetProductFromCache(input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if err := Store.AddItem(c.Request.Context(), userID, *product, input.Quantity); err != nil {
		log.Printf("❌ Erreur ajout panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout au panier"})
		return
	}

	items, _ := Store.Cart(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   items,
	})
}

//
// 🔄 PUT /api/cart/:productId
//
func UpdateCartQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Une quantité < 1 ne persiste jamais : c'est DELETE qui supprime
	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité minimum 1 — utilisez la suppression"})
		return
	}

	err := Store.UpdateQuantity(c.Request.Context(), userID, c.Param("productId"), input.Quantity)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ligne introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur mise à jour quantité: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour quantité"})
		return
	}

	items, _ := Store.Cart(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	if err := Store.RemoveItem(c.Request.Context(), userID, c.Param("productId")); err != nil {
		log.Printf("❌ Erreur suppression ligne: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression du panier"})
		return
	}

	items, _ := Store.Cart(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"items":   items,
	})
}

//
// 🧹 DELETE /api/cart
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	if err := Store.ClearCart(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}

//
// 🔢 GET /api/cart/summary — badges du header
//
func GetCartSummary(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	summary, err := Store.Summary(c.Request.Context(), userID, displayCurrency(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul totaux"})
		return
	}

	wishlistCount, err := Store.WishlistCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":             summary,
		"wishlist_count":   wishlistCount,
		"subtotal_display": Rates.Format(summary.Subtotal, summary.Currency),
	})
}

// displayCurrency : devise demandée en query, sinon préférence
// enregistrée, sinon NGN.
func displayCurrency(c *gin.Context) string {
	if cur := c.Query("currency"); cur != "" {
		return cur
	}
	if userID := c.GetString("user_id"); userID != "" {
		if pref := getCurrencyPreference(c.Request.Context(), userID); pref != "" {
			return pref
		}
	}
	return "NGN"
}
