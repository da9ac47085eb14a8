package domain

import (
	"fmt"
	"strings"
	"time"
)

// CategoryDoc is the serialized form of a Category.
// Kind carries the target discriminator; only the matching field is set.
type CategoryDoc struct {
	Name          string        `json:"name"`
	Icon          string        `json:"icon,omitempty"`
	Color         string        `json:"color,omitempty"`
	Kind          TargetKind    `json:"kind"`
	Href          string        `json:"href,omitempty"`
	Brand         string        `json:"brand,omitempty"`
	Links         []Link        `json:"links,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// CatalogDoc is the serialized form of a Catalog snapshot.
type CatalogDoc struct {
	Version    int64         `json:"version"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Source     string        `json:"source,omitempty"`
	Digest     string        `json:"digest,omitempty"`
	Categories []CategoryDoc `json:"categories"`
}

// ToDoc converts a category to its serialized form.
func ToDoc(cat Category) CategoryDoc {
	doc := CategoryDoc{Name: cat.Name, Icon: cat.Icon, Color: cat.Color}
	switch t := cat.Target.(type) {
	case DirectLink:
		doc.Kind = KindDirect
		doc.Href = t.URL
		doc.Brand = t.Name
	case FlatLinks:
		doc.Kind = KindLinks
		doc.Links = t.Links
	case GroupedLinks:
		doc.Kind = KindGrouped
		doc.Subcategories = t.Subcategories
	}
	return doc
}

// FromDoc converts a serialized category back to the domain union.
// Fields belonging to another kind are rejected. Links are not validated;
// use Validate on the resulting list.
func FromDoc(doc CategoryDoc) (Category, error) {
	cat := Category{Name: doc.Name, Icon: doc.Icon, Color: doc.Color}
	var extra []string
	switch doc.Kind {
	case KindDirect:
		cat.Target = DirectLink{Name: doc.Brand, URL: doc.Href}
		extra = doc.present(false, true, true)
	case KindLinks:
		cat.Target = FlatLinks{Links: doc.Links}
		extra = doc.present(true, false, true)
	case KindGrouped:
		cat.Target = GroupedLinks{Subcategories: doc.Subcategories}
		extra = doc.present(true, true, false)
	default:
		return Category{}, fmt.Errorf("%w: category %q: unknown kind %q", ErrInvalidCatalog, doc.Name, doc.Kind)
	}
	if len(extra) > 0 {
		return Category{}, fmt.Errorf("%w: category %q: kind %q does not allow %s",
			ErrInvalidCatalog, doc.Name, doc.Kind, strings.Join(extra, ", "))
	}
	return cat, nil
}

// present names the populated target fields among the requested ones.
func (doc CategoryDoc) present(direct, links, grouped bool) []string {
	var out []string
	if direct && doc.Href != "" {
		out = append(out, "href")
	}
	if direct && doc.Brand != "" {
		out = append(out, "brand")
	}
	if links && doc.Links != nil {
		out = append(out, "links")
	}
	if grouped && doc.Subcategories != nil {
		out = append(out, "subcategories")
	}
	return out
}

// ToCatalogDoc converts a snapshot to its serialized form.
func ToCatalogDoc(c *Catalog) CatalogDoc {
	doc := CatalogDoc{
		Version:    c.Version,
		UpdatedAt:  c.UpdatedAt,
		Source:     c.Source,
		Digest:     c.Digest,
		Categories: make([]CategoryDoc, 0, len(c.Categories)),
	}
	for _, cat := range c.Categories {
		doc.Categories = append(doc.Categories, ToDoc(cat))
	}
	return doc
}

// FromCatalogDoc rebuilds and validates a snapshot.
func FromCatalogDoc(doc CatalogDoc) (*Catalog, error) {
	categories := make([]Category, 0, len(doc.Categories))
	for _, d := range doc.Categories {
		cat, err := FromDoc(d)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	if err := Validate(categories); err != nil {
		return nil, err
	}
	return &Catalog{
		Version:    doc.Version,
		UpdatedAt:  doc.UpdatedAt,
		Source:     doc.Source,
		Digest:     doc.Digest,
		Categories: categories,
	}, nil
}
