package domain

import (
	"sort"
	"strings"
)

// ClickKey returns the counter key for a (category, brand) pair.
func ClickKey(category, brand string) string {
	return category + "_" + brand
}

// PopularityEntry is one row of the popularity report.
type PopularityEntry struct {
	Key      string  `json:"key"`
	Category string  `json:"category,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	Count    int64   `json:"count"`
	Percent  float64 `json:"percent"`
}

// Popularity turns raw click counters into percentages of the total,
// most clicked first. Keys are split on the first "_" that matches a known
// category when cat is non-nil, otherwise on the first "_".
func Popularity(counts map[string]int64, cat *Catalog) []PopularityEntry {
	var total int64
	for _, n := range counts {
		if n > 0 {
			total += n
		}
	}
	if total == 0 {
		return []PopularityEntry{}
	}

	out := make([]PopularityEntry, 0, len(counts))
	for key, n := range counts {
		if n <= 0 {
			continue
		}
		category, brand := splitClickKey(key, cat)
		out = append(out, PopularityEntry{
			Key:      key,
			Category: category,
			Brand:    brand,
			Count:    n,
			Percent:  float64(n) * 100 / float64(total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// splitClickKey recovers (category, brand) from a counter key.
// Category names may themselves contain "_", so known categories are
// preferred, longest first.
func splitClickKey(key string, cat *Catalog) (string, string) {
	if cat != nil {
		best := ""
		for _, c := range cat.Categories {
			if strings.HasPrefix(key, c.Name+"_") && len(c.Name) > len(best) {
				best = c.Name
			}
		}
		if best != "" {
			return best, key[len(best)+1:]
		}
	}
	if i := strings.IndexByte(key, '_'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}
