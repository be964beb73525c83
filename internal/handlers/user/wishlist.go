package user

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mahzskin_back_end/internal/cache"
)

// GetWishlist récupère la wishlist de l'utilisateur
func GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	items, err := Store.Wishlist(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur lecture wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"items":   items,
		"count":   len(items),
	})
}

// ToggleWishlist insère le produit s'il est absent, le retire sinon.
// Deux appels successifs ramènent toujours à l'état initial.
func ToggleWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	product, err := cache.GetProductFromCache(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	added, err := Store.ToggleWishlist(c.Request.Context(), userID, *product)
	if err != nil {
		log.Printf("❌ Erreur toggle wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour wishlist"})
		return
	}

	message := "Produit retiré de la wishlist"
	if added {
		message = "Produit ajouté à la wishlist"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"product_id": req.ProductID,
		"added":      added,
	})
}

// CheckWishlist indique si un produit est dans la wishlist
func CheckWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	inWishlist, err := Store.IsInWishlist(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"in_wishlist": inWishlist})
}
