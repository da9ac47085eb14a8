package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/catalog"
	"github.com/MrSnakeDoc/oneshop/internal/index"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
)

const reloadYAML = `
- name: Shopping
  icon: cart
  subcategories:
    - name: General
      links:
        - name: Flipkart
          url: https://flipkart.com
        - name: Amazon
          url: https://amazon.in
- name: Bill Pay
  brand: Paytm
  href: https://paytm.com
`

func writeCatalog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
}

func newTestReloader(t *testing.T, path string) (*CatalogReloader, *index.MemoryIndex) {
	t.Helper()
	log := logger.New("error", false)
	idx := index.NewMemoryIndex()
	mgr := catalog.NewManager(idx, nil, log)
	return NewCatalogReloader(path, mgr, log, time.Hour, make(chan struct{}, 1)), idx
}

func TestCatalogReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, reloadYAML)

	cr, idx := newTestReloader(t, path)
	ctx := context.Background()

	if err := cr.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	cur := idx.Current()
	if cur == nil || cur.Version != 1 || len(cur.Categories) != 2 {
		t.Fatalf("unexpected snapshot after first reload: %+v", cur)
	}
	if url, ok := idx.Resolve("Bill Pay", "Paytm"); !ok || url != "https://paytm.com" {
		t.Errorf("Resolve(Bill Pay, Paytm) = %q, %v", url, ok)
	}

	// Unchanged file does not bump the version
	if err := cr.Reload(ctx); err != nil {
		t.Fatalf("second Reload failed: %v", err)
	}
	if v := idx.Current().Version; v != 1 {
		t.Errorf("Expected version 1 after unchanged reload, got %d", v)
	}
}

func TestCatalogReloader_InvalidFileKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, reloadYAML)

	cr, idx := newTestReloader(t, path)
	ctx := context.Background()
	if err := cr.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	writeCatalog(t, path, "- name: Broken\n  href: not-a-url\n")
	if err := cr.Reload(ctx); err == nil {
		t.Fatal("Expected error for invalid catalog")
	}
	if cur := idx.Current(); cur.Version != 1 || len(cur.Categories) != 2 {
		t.Errorf("previous snapshot was replaced: %+v", cur)
	}
}

func TestCatalogReloader_StartFailsOnMissingFile(t *testing.T) {
	cr, _ := newTestReloader(t, filepath.Join(t.TempDir(), "missing.yaml"))
	if err := cr.Start(context.Background()); err == nil {
		t.Fatal("Expected Start to fail for a missing catalog file")
	}
}

func TestCatalogReloader_ManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, reloadYAML)

	cr, idx := newTestReloader(t, path)
	if err := cr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer cr.Stop()

	writeCatalog(t, path, reloadYAML+"- name: Travel\n  href: https://makemytrip.com\n")
	cr.manualTrigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for idx.CategoryCount() != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("manual trigger did not reload, categories = %d", idx.CategoryCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
