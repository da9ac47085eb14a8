package index

import (
	"sync"
	"testing"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
)

func testCatalog(version int64) *domain.Catalog {
	return &domain.Catalog{
		Version: version,
		Categories: []domain.Category{
			{
				Name: "Shopping",
				Target: domain.GroupedLinks{Subcategories: []domain.Subcategory{
					{Name: "General", Links: []domain.Link{
						{Name: "Flipkart", URL: "https://flipkart.com"},
						{Name: "Amazon", URL: "https://amazon.in"},
					}},
				}},
			},
			{
				Name:   "Bill Pay",
				Target: domain.DirectLink{Name: "Paytm", URL: "https://paytm.com"},
			},
		},
	}
}

func TestNewMemoryIndex(t *testing.T) {
	index := NewMemoryIndex()
	if index == nil {
		t.Fatal("NewMemoryIndex() returned nil")
	}
	if index.Current() != nil {
		t.Error("NewMemoryIndex() should start without a snapshot")
	}
	if got := index.Search("flip"); got == nil || len(got) != 0 {
		t.Errorf("Search() before publish = %v, want empty", got)
	}
	if index.CategoryCount() != 0 {
		t.Errorf("CategoryCount() = %d, want 0", index.CategoryCount())
	}
}

func TestPublish(t *testing.T) {
	index := NewMemoryIndex()

	if !index.Publish(testCatalog(2)) {
		t.Fatal("Publish(v2) rejected")
	}
	if index.CategoryCount() != 2 {
		t.Errorf("CategoryCount() = %d, want 2", index.CategoryCount())
	}
	if index.GetLastReload().IsZero() {
		t.Error("GetLastReload() should be set after publish")
	}

	// Older snapshots never replace newer ones
	if index.Publish(testCatalog(1)) {
		t.Error("Publish(v1) after v2 should be rejected")
	}
	if index.Current().Version != 2 {
		t.Errorf("Current().Version = %d, want 2", index.Current().Version)
	}

	if index.Publish(nil) {
		t.Error("Publish(nil) should be rejected")
	}
}

func TestSearch(t *testing.T) {
	index := NewMemoryIndex()
	index.Publish(testCatalog(1))

	got := index.Search("SHOP")
	if len(got) != 2 || got[0].BrandName != "Flipkart" || got[1].BrandName != "Amazon" {
		t.Errorf("Search(SHOP) = %+v", got)
	}
	if got := index.Search("  "); len(got) != 0 {
		t.Errorf("Search(blank) = %+v, want empty", got)
	}
}

func TestFlattenReturnsFreshSlices(t *testing.T) {
	index := NewMemoryIndex()
	index.Publish(testCatalog(1))

	a := index.Flatten()
	a[0].BrandName = "mutated"
	b := index.Flatten()
	if b[0].BrandName != "Flipkart" {
		t.Error("Flatten() results share memory across calls")
	}
}

func TestResolve(t *testing.T) {
	index := NewMemoryIndex()
	index.Publish(testCatalog(1))

	tests := []struct {
		category, brand string
		wantURL         string
		wantOK          bool
	}{
		{"Shopping", "Amazon", "https://amazon.in", true},
		{"Bill Pay", "Paytm", "https://paytm.com", true},
		{"Bill Pay", "Bill Pay", "", false},
		{"Shopping", "Paytm", "", false},
		{"Travel", "Irctc", "", false},
	}
	for _, tt := range tests {
		url, ok := index.Resolve(tt.category, tt.brand)
		if url != tt.wantURL || ok != tt.wantOK {
			t.Errorf("Resolve(%q, %q) = (%q, %v), want (%q, %v)",
				tt.category, tt.brand, url, ok, tt.wantURL, tt.wantOK)
		}
	}
}

func TestIncrementClick(t *testing.T) {
	index := NewMemoryIndex()

	if got := index.IncrementClick("Shopping_Amazon"); got != 1 {
		t.Errorf("IncrementClick() = %d, want 1", got)
	}
	if got := index.IncrementClick("Shopping_Amazon"); got != 2 {
		t.Errorf("IncrementClick() = %d, want 2", got)
	}

	counts := index.ClickCounts()
	counts["Shopping_Amazon"] = 100
	if index.ClickCounts()["Shopping_Amazon"] != 2 {
		t.Error("ClickCounts() should return a copy")
	}
}

func TestMergeClickCounts(t *testing.T) {
	index := NewMemoryIndex()
	index.IncrementClick("a_b")
	index.IncrementClick("a_b")
	index.IncrementClick("a_b")

	index.MergeClickCounts(map[string]int64{"a_b": 1, "c_d": 7})

	counts := index.ClickCounts()
	if counts["a_b"] != 3 {
		t.Errorf("MergeClickCounts() lowered a_b to %d", counts["a_b"])
	}
	if counts["c_d"] != 7 {
		t.Errorf("MergeClickCounts() c_d = %d, want 7", counts["c_d"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	index := NewMemoryIndex()
	index.Publish(testCatalog(1))

	var wg sync.WaitGroup

	// Concurrent reads
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = index.Search("a")
		}()
	}

	// Concurrent publishes
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			index.Publish(testCatalog(v))
		}(int64(i + 2))
	}

	// Concurrent counter increments on the same key
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			index.IncrementClick("Shopping_Flipkart")
		}()
	}

	wg.Wait()

	if got := index.ClickCounts()["Shopping_Flipkart"]; got != 100 {
		t.Errorf("Concurrent IncrementClick() counter = %v, want 100", got)
	}
	if index.Current().Version != 11 {
		t.Errorf("Current().Version = %d, want 11", index.Current().Version)
	}
}
