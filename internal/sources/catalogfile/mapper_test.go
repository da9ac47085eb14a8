package catalogfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
)

func TestMapperMapCatalog(t *testing.T) {
	file, _, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	categories, err := NewMapper().MapCatalog(file)
	if err != nil {
		t.Fatalf("MapCatalog() error = %v", err)
	}

	if len(categories) != 3 {
		t.Fatalf("MapCatalog() returned %d categories, want 3", len(categories))
	}

	if _, ok := categories[0].Target.(domain.GroupedLinks); !ok {
		t.Errorf("Shopping target = %T, want GroupedLinks", categories[0].Target)
	}
	if d, ok := categories[1].Target.(domain.DirectLink); !ok || d.Name != "Paytm" {
		t.Errorf("Bill Pay target = %#v, want DirectLink Paytm", categories[1].Target)
	}
	if _, ok := categories[2].Target.(domain.FlatLinks); !ok {
		t.Errorf("Food target = %T, want FlatLinks", categories[2].Target)
	}

	want := []domain.FlattenedEntry{
		{BrandName: "Flipkart", URL: "https://flipkart.com", CategoryName: "Shopping"},
		{BrandName: "Amazon", URL: "https://amazon.in", CategoryName: "Shopping"},
		{BrandName: "Paytm", URL: "https://paytm.com", CategoryName: "Bill Pay"},
		{BrandName: "Swiggy", URL: "https://swiggy.com", CategoryName: "Food"},
	}
	if diff := cmp.Diff(want, domain.Flatten(categories)); diff != "" {
		t.Errorf("Flatten(MapCatalog()) mismatch (-want +got):\n%s", diff)
	}
}

func TestMapperRejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		wantErr string
	}{
		{
			name:    "no target",
			file:    File{{Name: "Food"}},
			wantErr: `category "Food": no target`,
		},
		{
			name: "two targets",
			file: File{{
				Name:  "Food",
				Href:  "https://swiggy.com",
				Links: []domain.Link{{Name: "Zomato", URL: "https://zomato.com"}},
			}},
			wantErr: `category "Food": only one of`,
		},
		{
			name:    "unnamed category",
			file:    File{{Icon: "x"}},
			wantErr: `category "#1": no target`,
		},
		{
			name: "invalid link url",
			file: File{{
				Name:  "Food",
				Links: []domain.Link{{Name: "Swiggy", URL: "swiggy"}},
			}},
			wantErr: `category "Food": link #1 ("Swiggy")`,
		},
		{
			name: "empty links list",
			file: File{{
				Name:  "Food",
				Links: []domain.Link{},
			}},
			wantErr: `category "Food": no links`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categories, err := NewMapper().MapCatalog(tt.file)
			if err == nil {
				t.Fatalf("MapCatalog() = %v, want error", categories)
			}
			if !errors.Is(err, domain.ErrInvalidCatalog) {
				t.Errorf("MapCatalog() error %v does not wrap ErrInvalidCatalog", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("MapCatalog() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestToFileRoundTrip(t *testing.T) {
	file, _, _ := Parse([]byte(sampleYAML))
	categories, err := NewMapper().MapCatalog(file)
	if err != nil {
		t.Fatalf("MapCatalog() error = %v", err)
	}

	again, err := NewMapper().MapCatalog(ToFile(categories))
	if err != nil {
		t.Fatalf("MapCatalog(ToFile()) error = %v", err)
	}
	if diff := cmp.Diff(categories, again); diff != "" {
		t.Errorf("ToFile() round trip mismatch (-want +got):\n%s", diff)
	}
}
