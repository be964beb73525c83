package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mahzskin_back_end/internal/models"
)

// Clés fixes du stockage clé/valeur, un blob JSON par utilisateur.
// L'absence de clé vaut collection vide.
const (
	cartKeyPrefix     = "cart:"
	wishlistKeyPrefix = "wishlist:"
	localTTL          = 30 * 24 * time.Hour // 30 jours
)

// LocalStore est la variante historique : tout le panier et la wishlist
// vivent dans Redis sous forme de blobs JSON. Les lectures-modifications
// ne sont pas atomiques entre deux clients — c'est l'adaptateur Scylla
// qui porte les garanties d'upsert.
type LocalStore struct {
	rdb *redis.Client
}

func NewLocalStore(rdb *redis.Client) *LocalStore {
	return &LocalStore{rdb: rdb}
}

// --- Panier ---

func (s *LocalStore) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	data, err := s.rdb.Get(ctx, cartKeyPrefix+userID).Result()
	if err == redis.Nil || data == "" {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart []models.CartLine
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *LocalStore) AddItem(ctx context.Context, userID string, product models.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	// Accumule si la ligne existe déjà
	found := false
	productID := product.ID.String()
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, models.CartLine{
			LineID:    uuid.NewString(),
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  qty,
			ImageURL:  product.ImageURL,
		})
	}

	return s.saveCart(ctx, userID, cart)
}

func (s *LocalStore) UpdateQuantity(ctx context.Context, userID, productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity = qty
			return s.saveCart(ctx, userID, cart)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) RemoveItem(ctx context.Context, userID, productID string) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	filtered := cart[:0]
	for _, line := range cart {
		if line.ProductID != productID {
			filtered = append(filtered, line)
		}
	}
	return s.saveCart(ctx, userID, filtered)
}

func (s *LocalStore) ClearCart(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, cartKeyPrefix+userID).Err()
}

func (s *LocalStore) saveCart(ctx context.Context, userID string, cart []models.CartLine) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKeyPrefix+userID, data, localTTL).Err()
}

// --- Wishlist ---

func (s *LocalStore) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	data, err := s.rdb.Get(ctx, wishlistKeyPrefix+userID).Result()
	if err == redis.Nil || data == "" {
		return []models.WishlistItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var wishlist []models.WishlistItem
	if err := json.Unmarshal([]byte(data), &wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}

func (s *LocalStore) ToggleWishlist(ctx context.Context, userID string, product models.Product) (bool, error) {
	wishlist, err := s.GetWishlist(ctx, userID)
	if err != nil {
		return false, err
	}

	productID := product.ID.String()
	for i, item := range wishlist {
		if item.Product.ID.String() == productID {
			// Déjà présent : on retire
			wishlist = append(wishlist[:i], wishlist[i+1:]...)
			return false, s.saveWishlist(ctx, userID, wishlist)
		}
	}

	wishlist = append(wishlist, models.WishlistItem{
		EntryID: uuid.NewString(),
		AddedAt: time.Now(),
		Product: product,
	})
	return true, s.saveWishlist(ctx, userID, wishlist)
}

func (s *LocalStore) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	wishlist, err := s.GetWishlist(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, item := range wishlist {
		if item.Product.ID.String() == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *LocalStore) saveWishlist(ctx context.Context, userID string, wishlist []models.WishlistItem) error {
	data, err := json.Marshal(wishlist)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, wishlistKeyPrefix+userID, data, localTTL).Err()
}
