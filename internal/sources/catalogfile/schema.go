package catalogfile

import "github.com/MrSnakeDoc/oneshop/internal/domain"

// File is the top-level structure of catalog.yaml: an ordered list of tiles.
type File []CategoryEntry

// CategoryEntry is one tile as written in the YAML file.
// Exactly one of Href, Links or Subcategories must be set.
type CategoryEntry struct {
	Name          string               `yaml:"name"`
	Icon          string               `yaml:"icon,omitempty"`
	Color         string               `yaml:"color,omitempty"`
	Href          string               `yaml:"href,omitempty"`
	Brand         string               `yaml:"brand,omitempty"` // optional brand for href tiles
	Links         []domain.Link        `yaml:"links,omitempty"`
	Subcategories []domain.Subcategory `yaml:"subcategories,omitempty"`
}
