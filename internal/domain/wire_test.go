package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCatalogDocRoundTrip(t *testing.T) {
	in := &Catalog{
		Version:    7,
		UpdatedAt:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Source:     "admin:upsert",
		Categories: largerCatalog(),
	}

	data, err := json.Marshal(ToCatalogDoc(in))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var doc CatalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if doc.Categories[2].Kind != KindDirect {
		t.Errorf("Travel kind = %q, want %q", doc.Categories[2].Kind, KindDirect)
	}

	out, err := FromCatalogDoc(doc)
	if err != nil {
		t.Fatalf("FromCatalogDoc() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDocUnknownKind(t *testing.T) {
	_, err := FromDoc(CategoryDoc{Name: "Food", Kind: "carousel"})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("FromDoc(unknown kind) error = %v, want ErrInvalidCatalog", err)
	}
}

func TestFromDocRejectsFieldsOfOtherKinds(t *testing.T) {
	links := []Link{{Name: "Swiggy", URL: "https://swiggy.com"}}
	subs := []Subcategory{{Name: "Delivery", Links: links}}

	tests := []struct {
		name string
		doc  CategoryDoc
		want string
	}{
		{name: "links with href", doc: CategoryDoc{Name: "Food", Kind: KindLinks, Links: links, Href: "https://swiggy.com"}, want: "href"},
		{name: "links with subcategories", doc: CategoryDoc{Name: "Food", Kind: KindLinks, Links: links, Subcategories: subs}, want: "subcategories"},
		{name: "direct with links", doc: CategoryDoc{Name: "Food", Kind: KindDirect, Href: "https://swiggy.com", Links: []Link{}}, want: "links"},
		{name: "grouped with brand", doc: CategoryDoc{Name: "Food", Kind: KindGrouped, Subcategories: subs, Brand: "Swiggy"}, want: "brand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDoc(tt.doc)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("FromDoc() error = %v, want ErrInvalidCatalog", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("FromDoc() error = %q, want it to name %q", err.Error(), tt.want)
			}
		})
	}

	if _, err := FromDoc(CategoryDoc{Name: "Food", Kind: KindLinks, Links: links}); err != nil {
		t.Errorf("FromDoc(links only) error = %v", err)
	}
}

func TestFromCatalogDocValidates(t *testing.T) {
	doc := CatalogDoc{Categories: []CategoryDoc{
		{Name: "Food", Kind: KindLinks, Links: []Link{{Name: "Swiggy", URL: "not a url"}}},
	}}
	if _, err := FromCatalogDoc(doc); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("FromCatalogDoc(invalid) error = %v, want ErrInvalidCatalog", err)
	}
}
