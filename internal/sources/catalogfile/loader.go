package catalogfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{\s*(ONESHOP_VAR_[A-Z0-9_]+)\s*\}\}`)

// Loader handles loading and parsing of catalog.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new catalog file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the catalog file.
// It returns the parsed file and the sha256 digest of the expanded bytes.
func (l *Loader) Load() (File, string, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw catalog YAML after expanding template variables.
// The digest covers the expanded bytes, so a changed variable is a new catalog.
func Parse(data []byte) (File, string, error) {
	data = expandTemplateVariables(data)

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	return file, digest, nil
}

// expandTemplateVariables replaces {{ONESHOP_VAR_...}} with the environment value.
// Example: href: {{ONESHOP_VAR_PAYTM_URL}} -> href: "https://paytm.com"
func expandTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		val := os.Getenv(string(name))
		return []byte(`"` + strings.ReplaceAll(val, `"`, `\"`) + `"`)
	})
}
