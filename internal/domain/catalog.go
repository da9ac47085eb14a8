package domain

import "time"

// Catalog is an immutable snapshot of the launcher catalog.
//
// A snapshot is never mutated after it has been published. Every edit
// (file reload or admin write) produces a new snapshot with a higher Version.
type Catalog struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// Version increases by at least one on every published edit.
	Version int64

	// UpdatedAt is the time the snapshot was built.
	UpdatedAt time.Time

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// Source describes what produced the snapshot.
	// Example: file:/app/catalog.yaml, admin:upsert, redis
	Source string

	// Digest is the sha256 of the expanded catalog file the snapshot derives from.
	// Admin edits keep the digest of the snapshot they were applied to.
	Digest string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Categories are the top-level tiles, in display order.
	Categories []Category
}

// Category is one top-level tile.
type Category struct {
	// Name is unique across all categories (case-sensitive).
	Name string

	// Icon is an opaque symbolic identifier used only for display.
	Icon string

	// Color is a display hint.
	Color string

	// Target is exactly one of DirectLink, FlatLinks or GroupedLinks.
	Target Target
}

// Target is the navigation target of a category.
//
// The set of implementations is closed: DirectLink, FlatLinks and
// GroupedLinks. Consumers must handle all three with a type switch.
type Target interface {
	// Kind returns the wire discriminator of the target.
	Kind() TargetKind
	isTarget()
}

// TargetKind is the discriminator used when a target is serialized.
type TargetKind string

const (
	KindDirect  TargetKind = "direct"
	KindLinks   TargetKind = "links"
	KindGrouped TargetKind = "grouped"
)

// Link is a named external URL.
type Link struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Subcategory is a named group of links nested inside a category.
type Subcategory struct {
	Name  string `json:"name" yaml:"name"`
	Links []Link `json:"links" yaml:"links"`
}

// DirectLink makes the category itself navigate to a single URL.
// Name is optional; the category name is used as brand when empty.
type DirectLink struct {
	Name string
	URL  string
}

// FlatLinks is an ordered list of links.
type FlatLinks struct {
	Links []Link
}

// GroupedLinks is an ordered list of subcategories.
type GroupedLinks struct {
	Subcategories []Subcategory
}

func (DirectLink) Kind() TargetKind   { return KindDirect }
func (FlatLinks) Kind() TargetKind    { return KindLinks }
func (GroupedLinks) Kind() TargetKind { return KindGrouped }

func (DirectLink) isTarget()   {}
func (FlatLinks) isTarget()    {}
func (GroupedLinks) isTarget() {}

// BrandName returns the brand emitted for a direct link of the given category.
func (d DirectLink) BrandName(categoryName string) string {
	if d.Name != "" {
		return d.Name
	}
	return categoryName
}

// FindCategory returns the category with the given name.
func (c *Catalog) FindCategory(name string) (Category, bool) {
	if c == nil {
		return Category{}, false
	}
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// LinksOf returns every link reachable from a category, in navigation order.
// A direct link is returned as a single link named after its brand.
func LinksOf(cat Category) []Link {
	switch t := cat.Target.(type) {
	case DirectLink:
		return []Link{{Name: t.BrandName(cat.Name), URL: t.URL}}
	case FlatLinks:
		out := make([]Link, len(t.Links))
		copy(out, t.Links)
		return out
	case GroupedLinks:
		var out []Link
		for _, sub := range t.Subcategories {
			out = append(out, sub.Links...)
		}
		return out
	default:
		return nil
	}
}

// WithCategory returns a copy of categories where the category named like
// cat is replaced, or cat is appended when no such category exists.
func WithCategory(categories []Category, cat Category) []Category {
	out := make([]Category, 0, len(categories)+1)
	replaced := false
	for _, existing := range categories {
		if existing.Name == cat.Name {
			out = append(out, cat)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, cat)
	}
	return out
}

// WithoutCategory returns a copy of categories without the named category,
// and whether it was present.
func WithoutCategory(categories []Category, name string) ([]Category, bool) {
	out := make([]Category, 0, len(categories))
	found := false
	for _, existing := range categories {
		if existing.Name == name {
			found = true
			continue
		}
		out = append(out, existing)
	}
	return out, found
}
