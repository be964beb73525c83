package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mahzskin_back_end/internal/currency"
	"mahzskin_back_end/internal/database"
)

const currencyPrefPrefix = "currency_pref:"

// GetRates expose la table de taux courante (possiblement de secours).
func GetRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"base":    currency.BaseCurrency,
		"rates":   Rates.Rates(),
		"symbols": currency.Symbols,
	})
}

// GetCurrencyPreference retourne la devise d'affichage de l'utilisateur.
func GetCurrencyPreference(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	pref := getCurrencyPreference(c.Request.Context(), userID)
	if pref == "" {
		pref = currency.BaseCurrency
	}
	c.JSON(http.StatusOK, gin.H{"currency": pref})
}

// SetCurrencyPreference enregistre la devise d'affichage.
func SetCurrencyPreference(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		Currency string `json:"currency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if _, ok := currency.Symbols[input.Currency]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Devise non supportée"})
		return
	}

	if err := database.Redis.Set(c.Request.Context(), currencyPrefPrefix+userID, input.Currency, 0).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement préférence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": input.Currency})
}

func getCurrencyPreference(ctx context.Context, userID string) string {
	pref, err := database.Redis.Get(ctx, currencyPrefPrefix+userID).Result()
	if err != nil {
		return ""
	}
	return pref
}
