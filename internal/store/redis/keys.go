package redis

import "strconv"

const (
	// KeyCatalogCurrent holds the JSON of the current snapshot
	KeyCatalogCurrent = "oneshop:catalog:current"
	// KeyCatalogVersion is the snapshot version counter
	KeyCatalogVersion = "oneshop:catalog:version"
	// KeyPrefixCatalogVersion is the prefix for historical snapshots
	KeyPrefixCatalogVersion = "oneshop:catalog:v:"
	// KeyCatalogVersions is the sorted set of historical versions (score = unix seconds)
	KeyCatalogVersions = "oneshop:catalog:versions"
	// KeyClicks is the hash of click counters (field = category_brand)
	KeyClicks = "oneshop:clicks"
)

// CatalogVersionKey returns the Redis key for a historical snapshot
func CatalogVersionKey(version int64) string {
	return KeyPrefixCatalogVersion + strconv.FormatInt(version, 10)
}
