// Package catalog holds the fixed product list the storefront sells. The
// core never mutates it; products only flow into the cart and favorites
// as snapshots.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kugihands/internal/models"
)

type Product struct {
	ID        string
	Name      string
	Set       string
	Price     models.Price
	Image     string
	Category  string
	Badge     string
	BadgeType string

	// CustomPrice marks the "price may vary" product whose final price is
	// supplied by the caller at add-to-cart time.
	CustomPrice bool
}

// CartLine snapshots the product into a cart line.
func (p Product) CartLine(quantity int, deliveryOption string) models.CartLine {
	return models.CartLine{
		ID:             p.ID,
		Name:           p.Name,
		Set:            p.Set,
		Price:          p.Price,
		Image:          p.Image,
		Category:       p.Category,
		Quantity:       quantity,
		DeliveryOption: deliveryOption,
	}
}

// FavoriteEntry snapshots the product into a favorites entry.
func (p Product) FavoriteEntry() models.FavoriteEntry {
	return models.FavoriteEntry{
		ID:       p.ID,
		Name:     p.Name,
		Set:      p.Set,
		Price:    p.Price,
		Image:    p.Image,
		Category: p.Category,
	}
}

// Default is the shop's standing inventory.
func Default() []Product {
	return []Product{
		{ID: "fresh-a", Name: "Fresh Flowers", Set: "Set A", Price: models.NewPrice(380), Image: "./img/fresh/red.jpg", Category: "Fresh Flowers", Badge: "New", BadgeType: "new"},
		{ID: "fresh-b", Name: "Fresh Flowers", Set: "Set B", Price: models.NewPrice(350), Image: "./img/fresh/yellow.jpg", Category: "Fresh Flowers", Badge: "Sale", BadgeType: "sale"},
		{ID: "mixed-a", Name: "Mixed Flowers", Set: "Set A", Price: models.NewPrice(350), Image: "./img/mixed/pink.jpg", Category: "Mixed Flowers", Badge: "Sale", BadgeType: "sale"},
		{ID: "mixed-b", Name: "Mixed Flowers", Set: "Set B", Price: models.NewPrice(400), Image: "./img/mixed/bluee.jpg", Category: "Mixed Flowers", Badge: "New", BadgeType: "new"},
		{ID: "mixed-c", Name: "Mixed Flowers", Set: "Set C", Price: models.NewPrice(300), Image: "./img/mixed/green.jpg", Category: "Mixed Flowers", Badge: "Sale", BadgeType: "sale"},
		{ID: "crochet-a", Name: "Crochet Flowers", Set: "Set A", Price: models.NewPrice(750), Image: "./img/crochet/real.jpg", Category: "Crochet Flowers", Badge: "Sale", BadgeType: "sale"},
		{ID: "crochet-custom", Name: "Crochet Flowers", Set: "Customized", Price: models.PriceFromString("Price may vary"), Image: "./img/crochet/butterfly.jpg", Category: "Crochet Flowers", CustomPrice: true},
	}
}

// Find returns the product with the given id, or false.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

type yamlProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Set         string `yaml:"set"`
	Price       any    `yaml:"price"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
	Badge       string `yaml:"badge"`
	BadgeType   string `yaml:"badgeType"`
	CustomPrice bool   `yaml:"customPrice"`
}

// LoadFile reads an inventory from a YAML file for shops that stock
// something other than the defaults. Prices may be numbers or strings,
// matching the catalog descriptor contract.
func LoadFile(path string) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var entries []yamlProduct
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	products := make([]Product, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog: product %q has no id", e.Name)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("catalog: duplicate product id %q", e.ID)
		}
		seen[e.ID] = true

		price, err := priceFromYAML(e.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog: product %q: %w", e.ID, err)
		}
		products = append(products, Product{
			ID:          e.ID,
			Name:        e.Name,
			Set:         e.Set,
			Price:       price,
			Image:       e.Image,
			Category:    e.Category,
			Badge:       e.Badge,
			BadgeType:   e.BadgeType,
			CustomPrice: e.CustomPrice,
		})
	}
	return products, nil
}

func priceFromYAML(v any) (models.Price, error) {
	switch p := v.(type) {
	case int:
		return models.NewPrice(float64(p)), nil
	case float64:
		return models.NewPrice(p), nil
	case string:
		return models.PriceFromString(p), nil
	case nil:
		return models.Price{}, fmt.Errorf("missing price")
	default:
		return models.Price{}, fmt.Errorf("unsupported price type %T", v)
	}
}
