package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidCatalog is wrapped by every configuration error returned by Validate.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Validate checks a category list for configuration errors.
// The returned error names the offending category, subcategory and link.
func Validate(categories []Category) error {
	seen := make(map[string]struct{}, len(categories))

	for i, cat := range categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: category #%d: empty name", ErrInvalidCatalog, i+1)
		}
		if _, dup := seen[cat.Name]; dup {
			return fmt.Errorf("%w: category %q: duplicate name", ErrInvalidCatalog, cat.Name)
		}
		seen[cat.Name] = struct{}{}

		if err := validateTarget(cat); err != nil {
			return fmt.Errorf("%w: category %q: %s", ErrInvalidCatalog, cat.Name, err)
		}
	}

	return nil
}

func validateTarget(cat Category) error {
	switch t := cat.Target.(type) {
	case DirectLink:
		if err := ValidateURL(t.URL); err != nil {
			return fmt.Errorf("direct link: %s", err)
		}
	case FlatLinks:
		return validateLinks(t.Links)
	case GroupedLinks:
		if len(t.Subcategories) == 0 {
			return errors.New("no subcategories")
		}
		for i, sub := range t.Subcategories {
			if strings.TrimSpace(sub.Name) == "" {
				return fmt.Errorf("subcategory #%d: empty name", i+1)
			}
			if err := validateLinks(sub.Links); err != nil {
				return fmt.Errorf("subcategory %q: %s", sub.Name, err)
			}
		}
	case nil:
		return errors.New("no target (need one of href, links, subcategories)")
	default:
		return fmt.Errorf("unsupported target %T", t)
	}
	return nil
}

func validateLinks(links []Link) error {
	if len(links) == 0 {
		return errors.New("no links")
	}
	for i, l := range links {
		if strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("link #%d: empty name", i+1)
		}
		if err := ValidateURL(l.URL); err != nil {
			return fmt.Errorf("link #%d (%q): %s", i+1, l.Name, err)
		}
	}
	return nil
}

// ValidateURL reports whether raw is a syntactically valid absolute URL.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("empty url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %v", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q: must be absolute", raw)
	}
	return nil
}
