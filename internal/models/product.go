package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Product est la fiche produit telle que stockée dans ScyllaDB.
// Le prix est toujours exprimé dans la devise de base (NGN) ;
// la conversion se fait à l'affichage, jamais en base.
type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Category    string     `json:"category" db:"category"`
	InStock     bool       `json:"inStock" db:"in_stock"`
	Featured    bool       `json:"featured,omitempty" db:"featured"`
	Sales       int        `json:"sales,omitempty" db:"sales"`
	ImageURL    string     `json:"image,omitempty" db:"image_url"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}
