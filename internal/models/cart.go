package models

// CartLine est une ligne de panier : un produit, une quantité.
// LineID identifie la ligne indépendamment du produit (timeuuid côté Scylla).
// Invariant : Quantity >= 1, une quantité qui tombe à 0 supprime la ligne.
type CartLine struct {
	LineID    string  `json:"lineId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // prix unitaire en NGN
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image,omitempty"`
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartLine `json:"items"`
}
