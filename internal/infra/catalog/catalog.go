package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/glow-advisor/internal/domain/recommend"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

//go:embed products.yaml
var embeddedProducts []byte

type document struct {
	Products []skincare.Product `yaml:"products"`
}

// Catalog is the read-only product list loaded at startup.
type Catalog struct {
	products []skincare.Product
	byID     map[string]int
}

// Load reads the catalog from path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	data := embeddedProducts
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, errors.New("catalog has no products")
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Products))}
	var errs []error
	for i, p := range doc.Products {
		normalized, err := normalize(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %d (%s): %w", i, p.ID, err))
			continue
		}
		if _, dup := c.byID[normalized.ID]; dup {
			errs = append(errs, fmt.Errorf("product %d: duplicate id %q", i, normalized.ID))
			continue
		}
		c.byID[normalized.ID] = len(c.products)
		c.products = append(c.products, normalized)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func normalize(p skincare.Product) (skincare.Product, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" || strings.TrimSpace(p.Name) == "" {
		return p, errors.New("id and name are required")
	}
	cat, ok := skincare.ParseCategory(string(p.Category))
	if !ok {
		return p, fmt.Errorf("unknown category %q", p.Category)
	}
	p.Category = cat
	if p.Price < 0 {
		return p, errors.New("price cannot be negative")
	}
	if p.PriceRange == "" {
		p.PriceRange = skincare.TierForPrice(p.Price)
	} else if tier, ok := skincare.ParsePriceRange(string(p.PriceRange)); ok {
		p.PriceRange = tier
	} else {
		return p, fmt.Errorf("unknown price range %q", p.PriceRange)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return p, fmt.Errorf("rating %.1f outside [0,5]", p.Rating)
	}
	if p.ReviewCount < 0 {
		return p, errors.New("review count cannot be negative")
	}
	for i, c := range p.TargetConcerns {
		parsed, ok := skincare.ParseConcern(string(c))
		if !ok {
			return p, fmt.Errorf("unknown concern %q", c)
		}
		p.TargetConcerns[i] = parsed
	}
	for _, t := range p.SuitableSkinTypes {
		if !t.Valid() {
			return p, fmt.Errorf("unknown skin type %q", t)
		}
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	return p, nil
}

// Products returns a copy of the catalog in file order.
func (c *Catalog) Products() []skincare.Product {
	out := make([]skincare.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks up one entry by id.
func (c *Catalog) Product(id string) (skincare.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return skincare.Product{}, false
	}
	return c.products[idx], true
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

var _ recommend.Catalog = (*Catalog)(nil)
