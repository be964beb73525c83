package catalog

import (
	"sort"
	"strings"

	"mahzskin_back_end/internal/models"
)

// SortKey reprend les valeurs des menus de tri de la boutique.
type SortKey string

const (
	SortNameAsc     SortKey = "name-asc"
	SortNameDesc    SortKey = "name-desc"
	SortPriceLow    SortKey = "price-low"
	SortPriceHigh   SortKey = "price-high"
	SortNewest      SortKey = "newest"
	SortOldest      SortKey = "oldest"
	SortFeatured    SortKey = "featured"
	SortBestSelling SortKey = "best-selling"
)

// Filter décrit un filtrage de catalogue. Les critères indépendants
// (texte, catégories, prix, stock) sont commutatifs entre eux.
type Filter struct {
	Query       string
	Categories  []string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	Sort        SortKey
}

// Apply filtre puis trie la liste, sans modifier l'entrée.
// Déterministe : même entrée, même sortie.
func Apply(products []models.Product, f Filter) []models.Product {
	filtered := make([]models.Product, 0, len(products))

	query := strings.ToLower(strings.TrimSpace(f.Query))
	categories := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		categories[strings.ToLower(c)] = true
	}

	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if len(categories) > 0 && !categories[strings.ToLower(p.Category)] {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, f.Sort)
	return filtered
}

// matchesQuery : sous-chaîne insensible à la casse sur nom,
// description ou catégorie.
func matchesQuery(p models.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Category), query)
}

// sortProducts trie en place. Tous les tris sont stables : "featured"
// n'a pas de clé secondaire, les ex æquo gardent leur ordre relatif.
func sortProducts(products []models.Product, key SortKey) {
	switch key {
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) > strings.ToLower(products[j].Name)
		})
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		})
	case SortBestSelling:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Sales > products[j].Sales
		})
	case SortFeatured:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Featured && !products[j].Featured
		})
	}
}

// Paginate découpe la liste filtrée. La page demandée est ramenée dans
// [1, ceil(total/size)] quand le filtre ou la taille la fait sortir.
func Paginate(products []models.Product, page, size int) (items []models.Product, currentPage, totalPages int) {
	if size < 1 {
		size = 1
	}

	totalPages = (len(products) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start >= len(products) {
		return []models.Product{}, page, totalPages
	}
	if end > len(products) {
		end = len(products)
	}

	return products[start:end], page, totalPages
}
