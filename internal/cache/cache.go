package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"mahzskin_back_end/internal/database"
	"mahzskin_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB.
// La session n'est gardée en cache que pour l'affichage : c'est le
// backend qui fait foi.
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var (
		email, name, role string
	)
	err = session.Query(`SELECT email, name, role FROM users WHERE user_id = ?`,
		userID).Scan(&email, &name, &role)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:    userID,
		Email: email,
		Name:  name,
		Role:  role,
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// GetProductFromCache récupère une fiche produit avec cache Redis.
func GetProductFromCache(productID string) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID

	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var p models.Product
		if json.Unmarshal([]byte(data), &p) == nil {
			return &p, nil
		}
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = session.Query(`
		SELECT product_id, name, description, price, category, in_stock, featured, sales, image_url, created_at
		FROM products WHERE product_id = ?
	`, gocql.UUID(pid)).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.InStock, &p.Featured, &p.Sales, &p.ImageURL, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		database.Redis.Set(ctx, key, data, ProductCacheTTL)
	}

	return &p, nil
}

// InvalidateProductCache invalide le cache d'un produit et de la liste
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID, "products:all")
}
