package product

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"mahzskin_back_end/internal/cache"
	"mahzskin_back_end/internal/catalog"
	"mahzskin_back_end/internal/database"
	"mahzskin_back_end/internal/models"
	"mahzskin_back_end/internal/services"
)

const productsCacheKey = "products:all"

// loadProducts retourne la liste complète, via le cache Redis (1h).
func loadProducts(ctx context.Context) ([]models.Product, error) {
	if val, err := database.RedisClient.Get(ctx, productsCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT product_id, name, description, price, category, in_stock, featured, sales, image_url, created_at
		FROM products
	`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.InStock, &p.Featured, &p.Sales, &p.ImageURL, &p.CreatedAt) {
		products = append(products, p)
		p = models.Product{} // Reset pour la prochaine itération
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		database.RedisClient.Set(ctx, productsCacheKey, data, time.Hour)
	}

	return products, nil
}

//
// 📦 GET /api/products — liste filtrée, triée, paginée
//
func ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := loadProducts(ctx)
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	filter := catalog.Filter{
		Query:       c.Query("q"),
		Categories:  c.QueryArray("category"),
		InStockOnly: c.Query("in_stock") == "true",
		Sort:        catalog.SortKey(c.Query("sort")),
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}

	filtered := catalog.Apply(products, filter)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "12"))
	items, currentPage, totalPages := catalog.Paginate(filtered, page, pageSize)

	c.JSON(http.StatusOK, gin.H{
		"products":    items,
		"total":       len(filtered),
		"page":        currentPage,
		"total_pages": totalPages,
	})
}

//
// 🔍 GET /api/products/search?q=
//
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 1️⃣ Elasticsearch en priorité
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, gin.H{"products": results, "source": "elastic"})
		return
	}

	// 2️⃣ Repli : filtre sous-chaîne en mémoire
	products, err := loadProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	filtered := catalog.Apply(products, catalog.Filter{Query: query})
	c.JSON(http.StatusOK, gin.H{"products": filtered, "source": "memory"})
}

//
// 📄 GET /api/products/:id
//
func GetProduct(c *gin.Context) {
	p, err := cache.GetProductFromCache(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ================== WRITE PATH (admin) ==================

//
// 🆕 POST /api/products
//
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.Name == "" || p.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom et prix positif obligatoires"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.CreatedAt = time.Now()

	if err := session.Query(`
		INSERT INTO products (product_id, name, description, price, category, in_stock, featured, sales, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Price, p.Category, p.InStock, p.Featured, p.Sales, p.ImageURL, p.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)
	cache.InvalidateProductCache(p.ID.String())

	c.JSON(http.StatusOK, p)
}

//
// ✏️ PUT /api/products/:id
//
func UpdateProduct(c *gin.Context) {
	existing, err := cache.GetProductFromCache(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.ID = existing.ID
	input.CreatedAt = existing.CreatedAt

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`
		UPDATE products SET name = ?, description = ?, price = ?, category = ?, in_stock = ?, featured = ?, sales = ?, image_url = ?
		WHERE product_id = ?
	`, input.Name, input.Description, input.Price, input.Category, input.InStock,
		input.Featured, input.Sales, input.ImageURL, input.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	go services.IndexProduct(input)
	cache.InvalidateProductCache(input.ID.String())

	c.JSON(http.StatusOK, input)
}

//
// 🗑️ DELETE /api/products/:id
//
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	existing, err := cache.GetProductFromCache(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("DELETE FROM products WHERE product_id = ?", existing.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	go services.RemoveProductFromIndex(id)
	cache.InvalidateProductCache(id)

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}
