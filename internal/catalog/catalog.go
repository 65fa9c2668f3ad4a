// Package catalog holds the static menu: item code -> dish name and unit
// price in minor currency units. Loaded once, immutable afterwards.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Item struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	UnitPrice int64  `yaml:"unit_price"`
}

type Catalog struct {
	items map[string]Item
	codes []string // display order
}

func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: menu must contain at least one item")
	}

	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, item := range items {
		if item.Code == "" || item.Name == "" {
			return nil, fmt.Errorf("catalog: item code and name are required")
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("catalog: unit price for %q cannot be negative", item.Code)
		}
		if _, exists := c.items[item.Code]; exists {
			return nil, fmt.Errorf("catalog: duplicate item code %q", item.Code)
		}
		c.items[item.Code] = item
		c.codes = append(c.codes, item.Code)
	}

	return c, nil
}

// LoadFile reads a YAML menu file, a list of {code, name, unit_price} entries.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read menu file: %w", err)
	}

	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("catalog: invalid menu file %s: %w", path, err)
	}

	return New(items)
}

// Default is the built-in menu used when no menu file is configured.
func Default() *Catalog {
	c, err := New([]Item{
		{Code: "1", Name: "Riz au poisson", UnitPrice: 6000},
		{Code: "2", Name: "Poulet braisé", UnitPrice: 8000},
		{Code: "3", Name: "Frites", UnitPrice: 5000},
		{Code: "4", Name: "Jus naturel", UnitPrice: 2500},
	})
	if err != nil {
		panic(err) // built-in menu is statically valid
	}
	return c
}

func (c *Catalog) Lookup(code string) (Item, bool) {
	item, ok := c.items[code]
	return item, ok
}

// Codes returns item codes in display order. A copy, so callers cannot
// reorder the menu.
func (c *Catalog) Codes() []string {
	codes := make([]string, len(c.codes))
	copy(codes, c.codes)
	return codes
}

func (c *Catalog) Len() int {
	return len(c.items)
}
