package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mahzskin_back_end/internal/models"
	"mahzskin_back_end/internal/utils"
)

//
// ✉️ POST /api/contact
//
// Valide les champs requis et la forme de l'email côté serveur, puis
// relaie vers le SMTP configuré — ou journalise simplement en dev.
func ContactForm(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, email et message sont obligatoires"})
		return
	}

	if !utils.IsValidEmail(msg.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse email invalide"})
		return
	}

	if !utils.SMTPConfigured() {
		// Mode développement : pas de relais mail configuré
		log.Printf("📨 Message de contact (mode dev): %s <%s> — %s", msg.Name, msg.Email, msg.Comment)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Message reçu (mode développement)",
		})
		return
	}

	if err := utils.SendContactEmail(msg); err != nil {
		log.Printf("❌ Erreur envoi message de contact: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de l'envoi du message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message envoyé avec succès",
	})
}
