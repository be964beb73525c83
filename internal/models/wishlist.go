package models

import "time"

// WishlistItem référence un produit mis de côté par l'utilisateur.
// Invariant : un produit apparaît au plus une fois par wishlist.
type WishlistItem struct {
	EntryID string    `json:"entryId"`
	AddedAt time.Time `json:"addedAt"`
	Product Product   `json:"product"`
}

type Wishlist struct {
	UserID string         `json:"user_id"`
	Items  []WishlistItem `json:"items"`
}
