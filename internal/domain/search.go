package domain

import "strings"

// FlattenedEntry is a single search-ready record derived from the catalog.
type FlattenedEntry struct {
	BrandName    string `json:"brandName"`
	URL          string `json:"url"`
	CategoryName string `json:"categoryName"`
}

// Flatten walks the categories in order and emits one entry per link.
//
// Subcategory names are dropped; only the parent category is attached.
// Entries are de-duplicated by BrandName (case-sensitive), first occurrence wins.
func Flatten(categories []Category) []FlattenedEntry {
	out := make([]FlattenedEntry, 0, len(categories)*4)
	seen := make(map[string]struct{}, len(categories)*4)

	emit := func(brand, url, category string) {
		if _, dup := seen[brand]; dup {
			return
		}
		seen[brand] = struct{}{}
		out = append(out, FlattenedEntry{BrandName: brand, URL: url, CategoryName: category})
	}

	for _, cat := range categories {
		switch t := cat.Target.(type) {
		case DirectLink:
			emit(t.BrandName(cat.Name), t.URL, cat.Name)
		case FlatLinks:
			for _, l := range t.Links {
				emit(l.Name, l.URL, cat.Name)
			}
		case GroupedLinks:
			for _, sub := range t.Subcategories {
				for _, l := range sub.Links {
					emit(l.Name, l.URL, cat.Name)
				}
			}
		}
	}

	return out
}

// Search returns the entries whose brand or category name contains query,
// case-insensitively, in input order.
// An empty or whitespace-only query matches nothing.
func Search(query string, flattened []FlattenedEntry) []FlattenedEntry {
	q := NormalizeQuery(query)
	if q == "" {
		return []FlattenedEntry{}
	}

	out := make([]FlattenedEntry, 0)
	for _, e := range flattened {
		if strings.Contains(strings.ToLower(e.BrandName), q) ||
			strings.Contains(strings.ToLower(e.CategoryName), q) {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeQuery lowercases the query as typed, surrounding spaces included.
// A whitespace-only query normalizes to "".
func NormalizeQuery(query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	return strings.ToLower(query)
}
