package catalogfile

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `---
- name: Shopping
  icon: cart
  color: "#f97316"
  subcategories:
    - name: General
      links:
        - { name: Flipkart, url: https://flipkart.com }
        - { name: Amazon, url: https://amazon.in }
- name: Bill Pay
  icon: wallet
  href: https://paytm.com
  brand: Paytm
- name: Food
  links:
    - name: Swiggy
      url: https://swiggy.com
`

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "catalog.yaml")

	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	file, digest, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(file) != 3 {
		t.Fatalf("Load() returned %d categories, want 3", len(file))
	}
	if len(digest) != 64 {
		t.Errorf("Load() digest = %q, want 64 hex chars", digest)
	}
	if file[1].Href != "https://paytm.com" || file[1].Brand != "Paytm" {
		t.Errorf("Load() Bill Pay = %+v", file[1])
	}
	if len(file[0].Subcategories) != 1 || len(file[0].Subcategories[0].Links) != 2 {
		t.Errorf("Load() Shopping = %+v", file[0])
	}
}

func TestLoaderDigestChangesWithContent(t *testing.T) {
	_, d1, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, d2, _ := Parse([]byte(sampleYAML))
	_, d3, _ := Parse([]byte(sampleYAML + "\n# comment\n"))

	if d1 != d2 {
		t.Error("Parse() digest is not deterministic")
	}
	if d1 == d3 {
		t.Error("Parse() digest did not change with content")
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	t.Setenv("ONESHOP_VAR_PAYTM_URL", "https://paytm.com/in")

	yamlContent := `---
- name: Bill Pay
  href: {{ONESHOP_VAR_PAYTM_URL}}
- name: Unset
  href: {{ ONESHOP_VAR_NOT_SET }}
`
	file, _, err := Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if file[0].Href != "https://paytm.com/in" {
		t.Errorf("expanded href = %q, want https://paytm.com/in", file[0].Href)
	}
	if file[1].Href != "" {
		t.Errorf("unset variable href = %q, want empty", file[1].Href)
	}
}

func TestLoaderDigestFollowsTemplateVariables(t *testing.T) {
	tmpl := []byte(`---
- name: Bill Pay
  href: {{ONESHOP_VAR_PAYTM_URL}}
`)

	t.Setenv("ONESHOP_VAR_PAYTM_URL", "https://old.example")
	oldFile, oldDigest, err := Parse(tmpl)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	t.Setenv("ONESHOP_VAR_PAYTM_URL", "https://new.example")
	newFile, newDigest, err := Parse(tmpl)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if oldFile[0].Href != "https://old.example" || newFile[0].Href != "https://new.example" {
		t.Fatalf("expanded hrefs = %q, %q", oldFile[0].Href, newFile[0].Href)
	}
	if oldDigest == newDigest {
		t.Error("Parse() digest did not change when a template variable changed")
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/catalog.yaml")
	if _, _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	if _, _, err := Parse([]byte("- name: [unterminated")); err == nil {
		t.Error("Parse() with invalid yaml should return error")
	}
}
