package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"mahzskin_back_end/internal/database"
	"mahzskin_back_end/internal/models"
)

const (
	cartViewCacheKey     = "cart_view:"
	wishlistViewCacheKey = "wishlist_view:"
	viewCacheTTL         = 10 * time.Minute

	// Tentatives CAS avant d'abandonner une accumulation de quantité.
	casRetries = 3
)

// ScyllaStore est la variante distante : les lignes de panier et de
// wishlist sont des rangées ScyllaDB jointes aux produits à la lecture.
// L'upsert est poussé dans la base : INSERT ... IF NOT EXISTS puis
// accumulation par CAS, au lieu d'un test-puis-insert côté client.
type ScyllaStore struct{}

func NewScyllaStore() *ScyllaStore {
	return &ScyllaStore{}
}

// --- Panier ---

func (s *ScyllaStore) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	// Vue en cache d'abord
	if data, err := database.Redis.Get(ctx, cartViewCacheKey+userID).Result(); err == nil && data != "" {
		var cart []models.CartLine
		if json.Unmarshal([]byte(data), &cart) == nil {
			return cart, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT product_id, line_id, quantity FROM cart_items WHERE user_id = ?",
		userID).WithContext(ctx).Iter()

	type row struct {
		productID gocql.UUID
		lineID    gocql.UUID
		quantity  int
	}
	var rows []row
	var r row
	for iter.Scan(&r.productID, &r.lineID, &r.quantity) {
		rows = append(rows, r)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("erreur lecture panier: %v", err)
	}

	// Jointure avec les fiches produit
	cart := make([]models.CartLine, 0, len(rows))
	for _, r := range rows {
		product, err := fetchProduct(ctx, r.productID)
		if err != nil {
			// Produit disparu du catalogue : on ignore la ligne
			continue
		}
		cart = append(cart, models.CartLine{
			LineID:    r.lineID.String(),
			ProductID: r.productID.String(),
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  r.quantity,
			ImageURL:  product.ImageURL,
		})
	}

	if data, err := json.Marshal(cart); err == nil {
		database.Redis.Set(ctx, cartViewCacheKey+userID, data, viewCacheTTL)
	}

	return cart, nil
}

// AddItem insère la ligne, ou accumule la quantité si elle existe déjà.
// L'insertion est un LWT ; l'accumulation boucle en CAS sur la quantité
// observée, bornée à casRetries tentatives.
func (s *ScyllaStore) AddItem(ctx context.Context, userID string, product models.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	lineID := gocql.UUIDFromTime(time.Now())
	applied, err := session.Query(
		"INSERT INTO cart_items (user_id, product_id, line_id, quantity) VALUES (?, ?, ?, ?) IF NOT EXISTS",
		userID, product.ID, lineID, qty).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("erreur insertion panier: %v", err)
	}

	if !applied {
		// La ligne existe : accumulation CAS
		if err := s.accumulate(ctx, session, userID, product.ID, qty); err != nil {
			return err
		}
	}

	s.invalidateCart(ctx, userID)
	return nil
}

func (s *ScyllaStore) accumulate(ctx context.Context, session *gocql.Session, userID string, productID gocql.UUID, qty int) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		var current int
		if err := session.Query(
			"SELECT quantity FROM cart_items WHERE user_id = ? AND product_id = ?",
			userID, productID).WithContext(ctx).Scan(&current); err != nil {
			return fmt.Errorf("erreur lecture quantité: %v", err)
		}

		applied, err := session.Query(
			"UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ? IF quantity = ?",
			current+qty, userID, productID, current).WithContext(ctx).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return fmt.Errorf("erreur accumulation quantité: %v", err)
		}
		if applied {
			return nil
		}
		// Un autre appel a gagné la course, on relit et on retente
	}
	return fmt.Errorf("accumulation abandonnée après %d tentatives", casRetries)
}

func (s *ScyllaStore) UpdateQuantity(ctx context.Context, userID, productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return fmt.Errorf("ID produit invalide: %v", err)
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	// UPDATE conditionné à l'existence : pas de ligne fantôme créée
	applied, err := session.Query(
		"UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ? IF EXISTS",
		qty, userID, gocql.UUID(pid)).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("erreur mise à jour quantité: %v", err)
	}
	if !applied {
		return ErrNotFound
	}

	s.invalidateCart(ctx, userID)
	return nil
}

func (s *ScyllaStore) RemoveItem(ctx context.Context, userID, productID string) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return fmt.Errorf("ID produit invalide: %v", err)
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	if err := session.Query(
		"DELETE FROM cart_items WHERE user_id = ? AND product_id = ?",
		userID, gocql.UUID(pid)).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("erreur suppression ligne: %v", err)
	}

	s.invalidateCart(ctx, userID)
	return nil
}

func (s *ScyllaStore) ClearCart(ctx context.Context, userID string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	if err := session.Query(
		"DELETE FROM cart_items WHERE user_id = ?", userID).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("erreur vidage panier: %v", err)
	}

	s.invalidateCart(ctx, userID)
	return nil
}

func (s *ScyllaStore) invalidateCart(ctx context.Context, userID string) {
	database.Redis.Del(ctx, cartViewCacheKey+userID)
}

// --- Wishlist ---

func (s *ScyllaStore) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	if data, err := database.Redis.Get(ctx, wishlistViewCacheKey+userID).Result(); err == nil && data != "" {
		var wishlist []models.WishlistItem
		if json.Unmarshal([]byte(data), &wishlist) == nil {
			return wishlist, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT product_id, entry_id, added_at FROM wishlist WHERE user_id = ?",
		userID).WithContext(ctx).Iter()

	type row struct {
		productID gocql.UUID
		entryID   gocql.UUID
		addedAt   time.Time
	}
	var rows []row
	var r row
	for iter.Scan(&r.productID, &r.entryID, &r.addedAt) {
		rows = append(rows, r)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("erreur lecture wishlist: %v", err)
	}

	wishlist := make([]models.WishlistItem, 0, len(rows))
	for _, r := range rows {
		product, err := fetchProduct(ctx, r.productID)
		if err != nil {
			continue
		}
		wishlist = append(wishlist, models.WishlistItem{
			EntryID: r.entryID.String(),
			AddedAt: r.addedAt,
			Product: product,
		})
	}

	if data, err := json.Marshal(wishlist); err == nil {
		database.Redis.Set(ctx, wishlistViewCacheKey+userID, data, viewCacheTTL)
	}

	return wishlist, nil
}

// ToggleWishlist insère si absent, retire si présent. La déduplication
// est portée par le LWT, pas par un test préalable côté client.
func (s *ScyllaStore) ToggleWishlist(ctx context.Context, userID string, product models.Product) (bool, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return false, err
	}

	entryID := gocql.UUIDFromTime(time.Now())
	applied, err := session.Query(
		"INSERT INTO wishlist (user_id, product_id, entry_id, added_at) VALUES (?, ?, ?, ?) IF NOT EXISTS",
		userID, product.ID, entryID, time.Now()).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("erreur ajout wishlist: %v", err)
	}

	if !applied {
		// Déjà présent : le toggle retire l'entrée
		if err := session.Query(
			"DELETE FROM wishlist WHERE user_id = ? AND product_id = ?",
			userID, product.ID).WithContext(ctx).Exec(); err != nil {
			return false, fmt.Errorf("erreur retrait wishlist: %v", err)
		}
		s.invalidateWishlist(ctx, userID)
		log.Printf("🗑️ Produit %s retiré de la wishlist de %s", product.ID, userID)
		return false, nil
	}

	s.invalidateWishlist(ctx, userID)
	log.Printf("⭐ Produit %s ajouté à la wishlist de %s", product.ID, userID)
	return true, nil
}

func (s *ScyllaStore) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return false, fmt.Errorf("ID produit invalide: %v", err)
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return false, err
	}

	var found gocql.UUID
	err = session.Query(
		"SELECT product_id FROM wishlist WHERE user_id = ? AND product_id = ?",
		userID, gocql.UUID(pid)).WithContext(ctx).Scan(&found)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ScyllaStore) invalidateWishlist(ctx context.Context, userID string) {
	database.Redis.Del(ctx, wishlistViewCacheKey+userID)
}

// fetchProduct lit une fiche produit dans le keyspace products.
func fetchProduct(ctx context.Context, productID gocql.UUID) (models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	err = session.Query(`
		SELECT product_id, name, description, price, category, in_stock, featured, sales, image_url, created_at
		FROM products WHERE product_id = ?
	`, productID).WithContext(ctx).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.InStock, &p.Featured, &p.Sales, &p.ImageURL, &p.CreatedAt,
	)
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}
