package domain

import (
	"math"
	"testing"
)

func TestClickKey(t *testing.T) {
	if got := ClickKey("Bill Pay", "Paytm"); got != "Bill Pay_Paytm" {
		t.Errorf("ClickKey() = %q, want %q", got, "Bill Pay_Paytm")
	}
}

func TestPopularity(t *testing.T) {
	counts := map[string]int64{
		"Shopping_Flipkart": 6,
		"Shopping_Amazon":   3,
		"Bill Pay_Paytm":    1,
		"Food_Swiggy":       0,
	}

	got := Popularity(counts, &Catalog{Categories: scenarioCatalog()})
	if len(got) != 3 {
		t.Fatalf("Popularity() returned %d entries, want 3 (zero counts skipped)", len(got))
	}

	if got[0].Key != "Shopping_Flipkart" || got[0].Brand != "Flipkart" || got[0].Category != "Shopping" {
		t.Errorf("Popularity()[0] = %+v", got[0])
	}
	if math.Abs(got[0].Percent-60) > 1e-9 {
		t.Errorf("Popularity()[0].Percent = %v, want 60", got[0].Percent)
	}
	if got[2].Category != "Bill Pay" || got[2].Brand != "Paytm" {
		t.Errorf("Popularity()[2] = %+v", got[2])
	}

	var sum float64
	for _, e := range got {
		sum += e.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("Popularity() percentages sum to %v, want 100", sum)
	}
}

func TestPopularityTiesSortedByKey(t *testing.T) {
	got := Popularity(map[string]int64{"b_x": 1, "a_x": 1}, nil)
	if got[0].Key != "a_x" || got[1].Key != "b_x" {
		t.Errorf("Popularity() tie order = %q, %q", got[0].Key, got[1].Key)
	}
}

func TestPopularityEmpty(t *testing.T) {
	if got := Popularity(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("Popularity(nil) = %v, want empty slice", got)
	}
	if got := Popularity(map[string]int64{"a_b": 0}, nil); len(got) != 0 {
		t.Errorf("Popularity(zero) = %v, want empty slice", got)
	}
}

func TestSplitClickKeyPrefersKnownCategories(t *testing.T) {
	cat := &Catalog{Categories: []Category{
		{Name: "Bill_Pay", Target: DirectLink{URL: "https://paytm.com"}},
		{Name: "Bill", Target: DirectLink{URL: "https://bill.example"}},
	}}

	category, brand := splitClickKey("Bill_Pay_Paytm", cat)
	if category != "Bill_Pay" || brand != "Paytm" {
		t.Errorf("splitClickKey() = (%q, %q), want (Bill_Pay, Paytm)", category, brand)
	}

	category, brand = splitClickKey("Unknown_Brand_X", cat)
	if category != "Unknown" || brand != "Brand_X" {
		t.Errorf("splitClickKey() fallback = (%q, %q)", category, brand)
	}
}
