package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Product is an item in the climate shop catalog.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	ImageURL    string  `json:"imageUrl" yaml:"imageUrl"`
	Category    string  `json:"category" yaml:"category"`
}

// Catalog is the fixed set of products sold in the shop section.
var Catalog = []Product{
	{
		ID:          "n95-mask-pack",
		Title:       "N95 Pollution Mask (5 pack)",
		Description: "Reusable-strap N95 masks that filter fine particulate matter on high AQI days.",
		Price:       24.99,
		ImageURL:    "https://images.unsplash.com/photo-1584634731339-252c581abfc5",
		Category:    "air",
	},
	{
		ID:          "hepa-air-purifier",
		Title:       "Compact HEPA Air Purifier",
		Description: "True HEPA filter for rooms up to 20 m², removes 99.97% of PM2.5.",
		Price:       129.00,
		ImageURL:    "https://images.unsplash.com/photo-1585771724684-38269d6639fd",
		Category:    "air",
	},
	{
		ID:          "solar-lantern",
		Title:       "Solar Camping Lantern",
		Description: "Charges in daylight, 12 hours of LED light without grid power.",
		Price:       34.50,
		ImageURL:    "https://images.unsplash.com/photo-1509391366360-2e959784a276",
		Category:    "energy",
	},
	{
		ID:          "steel-water-bottle",
		Title:       "Insulated Steel Water Bottle",
		Description: "750 ml double-wall bottle that replaces hundreds of single-use plastics.",
		Price:       19.95,
		ImageURL:    "https://images.unsplash.com/photo-1602143407151-7111542de6e8",
		Category:    "waste",
	},
	{
		ID:          "compost-bin",
		Title:       "Kitchen Compost Bin",
		Description: "Odour-sealed 5 L countertop bin with charcoal filter.",
		Price:       27.00,
		ImageURL:    "https://images.unsplash.com/photo-1591193686104-fddba4d0e4d8",
		Category:    "waste",
	},
	{
		ID:          "indoor-aqi-monitor",
		Title:       "Indoor Air Quality Monitor",
		Description: "Tracks PM2.5, CO2, temperature and humidity with a colour-coded display.",
		Price:       79.99,
		ImageURL:    "https://images.unsplash.com/photo-1558002038-1055907df827",
		Category:    "air",
	},
}

// LoadCatalog reads a YAML list of products, e.g.
//
//	- id: solar-lantern
//	  title: Solar Camping Lantern
//	  price: 34.5
//	  category: energy
func LoadCatalog(path string) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var products []Product
	if err := yaml.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	seen := make(map[string]bool, len(products))
	for i, p := range products {
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		case seen[p.ID]:
			return nil, fmt.Errorf("duplicate catalog id %q", p.ID)
		case p.Price <= 0:
			return nil, fmt.Errorf("catalog entry %q has no price", p.ID)
		}
		seen[p.ID] = true
	}
	return products, nil
}

// FindProduct returns the catalog entry with the given id.
func FindProduct(id string) (Product, bool) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// SearchProducts filters the catalog by keyword (title or description,
// case-insensitive) and category. Empty arguments match everything.
func SearchProducts(keyword, category string) []Product {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	category = strings.ToLower(strings.TrimSpace(category))

	products := make([]Product, 0, len(Catalog))
	for _, p := range Catalog {
		if category != "" && category != "all" && strings.ToLower(p.Category) != category {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Title), keyword) &&
			!strings.Contains(strings.ToLower(p.Description), keyword) {
			continue
		}
		products = append(products, p)
	}
	return products
}
