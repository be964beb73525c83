package storage

import (
	"context"
	"errors"

	"mahzskin_back_end/internal/models"
)

// ErrInvalidQuantity est renvoyée pour toute quantité < 1 : une ligne à
// quantité nulle ne doit jamais être persistée, l'appelant doit supprimer.
var ErrInvalidQuantity = errors.New("quantité invalide (minimum 1)")

// ErrNotFound est renvoyée quand la ligne visée n'existe pas.
var ErrNotFound = errors.New("ligne introuvable")

// CartStore persiste le panier d'un utilisateur.
// AddItem accumule : ajouter deux fois le même produit additionne les
// quantités au lieu de les écraser.
type CartStore interface {
	GetCart(ctx context.Context, userID string) ([]models.CartLine, error)
	AddItem(ctx context.Context, userID string, product models.Product, qty int) error
	UpdateQuantity(ctx context.Context, userID, productID string, qty int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
}

// WishlistStore persiste la wishlist. Un produit apparaît au plus une
// fois ; Toggle insère ou retire selon l'état courant.
type WishlistStore interface {
	GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error)
	ToggleWishlist(ctx context.Context, userID string, product models.Product) (added bool, err error)
	IsInWishlist(ctx context.Context, userID, productID string) (bool, error)
}
