package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

func TestEmbeddedCatalogIsValid(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.GreaterOrEqual(t, c.Len(), 20)

	categories := map[skincare.ProductCategory]int{}
	for _, p := range c.Products() {
		categories[p.Category]++
		require.NotEmpty(t, p.TargetConcerns, p.ID)
		require.NotEmpty(t, p.SuitableSkinTypes, p.ID)
	}
	for _, cat := range []skincare.ProductCategory{
		skincare.CategoryCleanser, skincare.CategoryToner, skincare.CategorySerum,
		skincare.CategoryMoisturizer, skincare.CategorySunscreen, skincare.CategoryEyeCream,
	} {
		require.GreaterOrEqual(t, categories[cat], 2, cat)
	}

	p, ok := c.Product("serum-ordinary-niacinamide")
	require.True(t, ok)
	require.Equal(t, skincare.PriceBudget, p.PriceRange)
	require.Equal(t, 52340, p.ReviewCount)
}

func TestParseDerivesTierAndCurrency(t *testing.T) {
	c, err := Parse([]byte(`
products:
  - id: x
    name: Test Serum
    category: Serum
    price: 45
    targetConcerns: [Acne]
    suitableSkinTypes: [oily]
`))
	require.NoError(t, err)
	p, _ := c.Product("x")
	require.Equal(t, skincare.PriceMidRange, p.PriceRange)
	require.Equal(t, skincare.CategorySerum, p.Category)
	require.Equal(t, []skincare.Concern{skincare.ConcernAcne}, p.TargetConcerns)
	require.Equal(t, "USD", p.Currency)
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"empty":            `products: []`,
		"unknown field":    "products:\n  - id: a\n    name: A\n    category: serum\n    colour: red\n",
		"unknown category": "products:\n  - id: a\n    name: A\n    category: potion\n",
		"bad concern":      "products:\n  - id: a\n    name: A\n    category: serum\n    targetConcerns: [freckles]\n",
		"bad skin type":    "products:\n  - id: a\n    name: A\n    category: serum\n    suitableSkinTypes: [greasy]\n",
		"bad rating":       "products:\n  - id: a\n    name: A\n    category: serum\n    rating: 7\n",
		"bad tier":         "products:\n  - id: a\n    name: A\n    category: serum\n    priceRange: cheap\n",
		"duplicate":        "products:\n  - id: a\n    name: A\n    category: serum\n  - id: a\n    name: B\n    category: toner\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		require.Error(t, err, name)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - id: only\n    name: Only\n    category: mask\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
