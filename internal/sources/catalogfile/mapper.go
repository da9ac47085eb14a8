package catalogfile

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
)

// Mapper converts catalog file entries to domain categories
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapCatalog converts the file into validated domain categories.
// Any malformed entry fails the whole catalog.
func (m *Mapper) MapCatalog(file File) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(file))

	for i, entry := range file {
		target, err := mapTarget(entry)
		if err != nil {
			name := entry.Name
			if strings.TrimSpace(name) == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return nil, fmt.Errorf("%w: category %q: %s", domain.ErrInvalidCatalog, name, err)
		}

		categories = append(categories, domain.Category{
			Name:   entry.Name,
			Icon:   entry.Icon,
			Color:  entry.Color,
			Target: target,
		})
	}

	if err := domain.Validate(categories); err != nil {
		return nil, err
	}

	return categories, nil
}

// mapTarget picks the single populated target field.
func mapTarget(entry CategoryEntry) (domain.Target, error) {
	set := 0
	if entry.Href != "" {
		set++
	}
	if entry.Links != nil {
		set++
	}
	if entry.Subcategories != nil {
		set++
	}

	switch {
	case set == 0:
		return nil, fmt.Errorf("no target (need one of href, links, subcategories)")
	case set > 1:
		return nil, fmt.Errorf("only one of href, links, subcategories may be set")
	case entry.Href != "":
		return domain.DirectLink{Name: entry.Brand, URL: entry.Href}, nil
	case entry.Links != nil:
		return domain.FlatLinks{Links: entry.Links}, nil
	default:
		return domain.GroupedLinks{Subcategories: entry.Subcategories}, nil
	}
}

// ToFile converts domain categories back to the file representation.
func ToFile(categories []domain.Category) File {
	file := make(File, 0, len(categories))
	for _, cat := range categories {
		entry := CategoryEntry{Name: cat.Name, Icon: cat.Icon, Color: cat.Color}
		switch t := cat.Target.(type) {
		case domain.DirectLink:
			entry.Href = t.URL
			entry.Brand = t.Name
		case domain.FlatLinks:
			entry.Links = t.Links
		case domain.GroupedLinks:
			entry.Subcategories = t.Subcategories
		}
		file = append(file, entry)
	}
	return file
}
