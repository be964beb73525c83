package catalog

import (
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mahzskin_back_end/internal/models"
)

func makeProduct(name, description, category string, price float64, opts ...func(*models.Product)) models.Product {
	p := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		InStock:     true,
		CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func testCatalog() []models.Product {
	return []models.Product{
		makeProduct("Gommage Éclat", "exfoliating scrub with shea butter", "exfoliants", 7500,
			func(p *models.Product) { p.Sales = 120 }),
		makeProduct("Crème Hydratante", "daily moisturizer for dry skin", "moisturizers", 12000,
			func(p *models.Product) { p.Featured = true; p.Sales = 340 }),
		makeProduct("Sérum Vitamine C", "brightening serum", "serums", 18500,
			func(p *models.Product) { p.CreatedAt = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) }),
		makeProduct("Savon Noir", "black soap for oily skin", "cleansers", 4500,
			func(p *models.Product) { p.InStock = false; p.Sales = 88 }),
		makeProduct("Beurre de Karité", "raw shea butter moisturizer", "moisturizers", 6000,
			func(p *models.Product) { p.Featured = true }),
	}
}

func TestApplyTextSearchMatchesAllFields(t *testing.T) {
	products := testCatalog()

	// Nom
	assert.Len(t, Apply(products, Filter{Query: "sérum"}), 1)
	// Description
	assert.Len(t, Apply(products, Filter{Query: "shea"}), 2)
	// Catégorie
	assert.Len(t, Apply(products, Filter{Query: "moistur"}), 2)
	// Insensible à la casse
	assert.Len(t, Apply(products, Filter{Query: "SAVON"}), 1)
	// Aucun résultat
	assert.Empty(t, Apply(products, Filter{Query: "introuvable"}))
}

func TestApplyIndependentFiltersCommute(t *testing.T) {
	products := testCatalog()

	// catégorie puis texte == texte puis catégorie
	byCategory := Apply(products, Filter{Categories: []string{"moisturizers"}})
	thenQuery := Apply(byCategory, Filter{Query: "shea"})

	byQuery := Apply(products, Filter{Query: "shea"})
	thenCategory := Apply(byQuery, Filter{Categories: []string{"moisturizers"}})

	combined := Apply(products, Filter{Query: "shea", Categories: []string{"moisturizers"}})

	assert.Equal(t, thenCategory, thenQuery)
	assert.Equal(t, combined, thenQuery)
}

func TestApplyPriceAndStockFilters(t *testing.T) {
	products := testCatalog()

	min, max := 5000.0, 13000.0
	result := Apply(products, Filter{MinPrice: &min, MaxPrice: &max})
	require.Len(t, result, 3)
	for _, p := range result {
		assert.GreaterOrEqual(t, p.Price, min)
		assert.LessOrEqual(t, p.Price, max)
	}

	inStock := Apply(products, Filter{InStockOnly: true})
	assert.Len(t, inStock, 4)
}

func TestApplySortKeys(t *testing.T) {
	products := testCatalog()

	byPrice := Apply(products, Filter{Sort: SortPriceLow})
	for i := 1; i < len(byPrice); i++ {
		assert.LessOrEqual(t, byPrice[i-1].Price, byPrice[i].Price)
	}

	byPriceDesc := Apply(products, Filter{Sort: SortPriceHigh})
	for i := 1; i < len(byPriceDesc); i++ {
		assert.GreaterOrEqual(t, byPriceDesc[i-1].Price, byPriceDesc[i].Price)
	}

	newest := Apply(products, Filter{Sort: SortNewest})
	assert.Equal(t, "Sérum Vitamine C", newest[0].Name)

	bestSelling := Apply(products, Filter{Sort: SortBestSelling})
	assert.Equal(t, "Crème Hydratante", bestSelling[0].Name)
	// Sales absent vaut 0 et se classe en dernier
	assert.Zero(t, bestSelling[len(bestSelling)-1].Sales)
}

func TestApplyFeaturedSortIsStable(t *testing.T) {
	products := testCatalog()
	result := Apply(products, Filter{Sort: SortFeatured})

	// Les produits en vedette passent devant
	assert.True(t, result[0].Featured)
	assert.True(t, result[1].Featured)

	// Pas de clé secondaire : les ex æquo gardent l'ordre d'entrée
	assert.Equal(t, "Crème Hydratante", result[0].Name)
	assert.Equal(t, "Beurre de Karité", result[1].Name)
	assert.Equal(t, "Gommage Éclat", result[2].Name)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	products := testCatalog()
	original := make([]models.Product, len(products))
	copy(original, products)

	Apply(products, Filter{Sort: SortPriceHigh, Query: "s"})

	assert.Equal(t, original, products)
}

func TestPaginateSliceProperties(t *testing.T) {
	products := testCatalog() // 5 produits
	size := 2

	var total int
	_, _, totalPages := Paginate(products, 1, size)
	require.Equal(t, 3, totalPages)

	for page := 1; page <= totalPages; page++ {
		items, currentPage, _ := Paginate(products, page, size)
		assert.Equal(t, page, currentPage)
		if page < totalPages {
			assert.Len(t, items, size, "toutes les pages sauf la dernière sont pleines")
		}
		total += len(items)
	}
	assert.Equal(t, len(products), total, "la somme des pages couvre tout le filtré")
}

func TestPaginateClampsOutOfRangePage(t *testing.T) {
	products := testCatalog()

	// Page trop grande : ramenée à la dernière
	items, page, totalPages := Paginate(products, 99, 2)
	assert.Equal(t, totalPages, page)
	assert.Len(t, items, 1)

	// Page < 1 : ramenée à la première
	_, page, _ = Paginate(products, 0, 2)
	assert.Equal(t, 1, page)

	// Liste vide : page 1 sur 1, tranche vide
	items, page, totalPages = Paginate(nil, 3, 10)
	assert.Empty(t, items)
	assert.Equal(t, 1, page)
	assert.Equal(t, 1, totalPages)
}
