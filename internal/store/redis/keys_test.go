package redis

import "testing"

func TestCatalogVersionKey(t *testing.T) {
	if got := CatalogVersionKey(42); got != "oneshop:catalog:v:42" {
		t.Errorf("CatalogVersionKey(42) = %q", got)
	}
}
