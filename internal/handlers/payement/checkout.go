package pa

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"

	"mahzskin_back_end/internal/currency"
	"mahzskin_back_end/internal/handlers/user"
	"mahzskin_back_end/internal/utils"
)

// Checkout collecte les champs du formulaire, valide, puis délègue le
// paiement à une redirection Stripe Checkout. Aucun traitement de
// commande côté serveur : la session expire d'elle-même si abandonnée.
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required"`
		Phone   string `json:"phone"`
		Address string `json:"address" binding:"required"`
		City    string `json:"city" binding:"required"`
		Country string `json:"country" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse email invalide", "field": "email"})
		return
	}

	// Panier courant
	cart, err := user.Store.Cart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Stripe ne règle pas en NGN : les lignes sont converties en USD
	// (centimes) via la table de taux courante
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(cart))
	for _, line := range cart {
		unitUSD := user.Rates.Convert(line.Price, currency.BaseCurrency, "USD")
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
				UnitAmount: stripe.Int64(int64(unitUSD * 100)),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     lineItems,
		CustomerEmail: stripe.String(req.Email),
		SuccessURL:    stripe.String(baseURL + "/checkout/success"),
		CancelURL:     stripe.String(baseURL + "/checkout/cancel"),
	}

	s, err := session.New(params)
	if err != nil {
		log.Printf("❌ Erreur création session Stripe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur initialisation du paiement"})
		return
	}

	log.Printf("💳 Session Stripe créée pour %s (%d lignes)", userID, len(cart))
	c.JSON(http.StatusOK, gin.H{"checkout_url": s.URL, "session_id": s.ID})
}
