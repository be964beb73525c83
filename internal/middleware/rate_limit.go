package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mahzskin_back_end/internal/database"
)

const (
	LoginMaxAttempts   = 5
	ContactMaxRequests = 3

	LoginCooldown   = 15 * time.Minute
	ContactCooldown = 10 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Remettre le body pour les handlers suivants
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		key := "login_attempts:" + input.Email
		cooldownKey := "login_cooldown:" + input.Email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= LoginMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", LoginCooldown)
			database.Redis.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de tentatives échouées. Réessayez plus tard",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RecordFailedLogin incrémente le compteur après un échec.
func RecordFailedLogin(email string) {
	ctx := context.Background()
	key := "login_attempts:" + email
	database.Redis.Incr(ctx, key)
	database.Redis.Expire(ctx, key, LoginCooldown)
}

// ResetLoginAttempts remet le compteur à zéro après un succès.
func ResetLoginAttempts(email string) {
	database.Redis.Del(context.Background(), "login_attempts:"+email)
}

// ContactRateLimit limite le formulaire de contact par adresse IP.
func ContactRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := "contact_requests:" + c.ClientIP()

		count, _ := database.Redis.Get(ctx, key).Int()
		if count >= ContactMaxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de messages envoyés. Réessayez plus tard",
			})
			c.Abort()
			return
		}

		database.Redis.Incr(ctx, key)
		database.Redis.Expire(ctx, key, ContactCooldown)
		c.Next()
	}
}
