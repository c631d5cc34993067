package assets

import "embed"

//go:embed categories.json
var FS embed.FS

// CatalogJSON returns the embedded offline category catalog.
func CatalogJSON() ([]byte, error) {
	return FS.ReadFile("categories.json")
}
