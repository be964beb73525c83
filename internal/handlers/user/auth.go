package user

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mahzskin_back_end/internal/cache"
	"mahzskin_back_end/internal/database"
	"mahzskin_back_end/internal/middleware"
	"mahzskin_back_end/internal/models"
	"mahzskin_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

//
// 📝 POST /api/auth/signup
//
func CreateUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Validations locales avant tout appel backend
	if !utils.IsValidEmail(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse email invalide", "field": "email"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du compte"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	userID := uuid.NewString()

	// LWT sur users_by_email : l'unicité de l'email est garantie par la
	// base, pas par un test préalable côté client
	applied, err := session.Query(
		"INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS",
		input.Email, userID).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du compte"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	now := time.Now()
	if err := session.Query(`
		INSERT INTO users (user_id, email, password, name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, input.Email, hashedPassword, input.Name, "customer", now).Exec(); err != nil {
		log.Printf("❌ Erreur insertion utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du compte"})
		return
	}

	user := models.User{
		ID:    userID,
		Name:  input.Name,
		Email: input.Email,
		Role:  "customer",
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Nouveau compte créé: %s", input.Email)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

//
// 🔑 POST /api/auth/login
//
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userID string
	if err := session.Query(
		"SELECT user_id FROM users_by_email WHERE email = ?",
		input.Email).Scan(&userID); err != nil {
		middleware.RecordFailedLogin(input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	var (
		name, role, hashedPassword string
	)
	if err := session.Query(
		"SELECT name, role, password FROM users WHERE user_id = ?",
		userID).Scan(&name, &role, &hashedPassword); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, hashedPassword)
	if err != nil || !ok {
		middleware.RecordFailedLogin(input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	middleware.ResetLoginAttempts(input.Email)

	user := models.User{ID: userID, Name: name, Email: input.Email, Role: role}
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Connexion réussie: %s", input.Email)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

//
// 👤 GET /api/auth/me
//
func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}

//
// 🚪 POST /api/auth/logout
//
func Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID != "" {
		cache.InvalidateUserCache(userID)
	}
	// Le token JWT est simplement abandonné côté client
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}
