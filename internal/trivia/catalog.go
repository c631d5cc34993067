// internal/trivia/catalog.go
//
// Embedded offline catalog: a Source backed by a JSON file instead of the
// remote API, so the server can run with no network at all.
//
// Initialization behavior (DefaultCatalog):
//   1. If TRIVIA_CATALOG_FILE is set, load the catalog from that file.
//   2. Otherwise fall back to the embedded assets/categories.json.
//
// Constraints:
//   • Every catalog category must carry a title and at least NumClues clues.
//   • Initialization runs once (sync.Once).

package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/robalobadob/jeopardy/assets"
	"github.com/robalobadob/jeopardy/internal/game"
)

// Catalog serves categories from an in-memory list. Listing wraps around
// the end of the list, so any offset yields a full candidate window.
type Catalog struct {
	cats []RawCategory
	byID map[int64]RawCategory
}

var (
	catalogOnce sync.Once
	catalogInst *Catalog
	catalogErr  error
)

// DefaultCatalog loads the offline catalog exactly once: from the file
// named by TRIVIA_CATALOG_FILE if set, otherwise from the embedded data.
func DefaultCatalog() (*Catalog, error) {
	catalogOnce.Do(func() {
		var data []byte
		var err error
		if path := os.Getenv("TRIVIA_CATALOG_FILE"); path != "" {
			data, err = os.ReadFile(path)
		} else {
			data, err = assets.CatalogJSON()
		}
		if err != nil {
			catalogErr = err
			return
		}
		catalogInst, catalogErr = NewCatalog(data)
	})
	return catalogInst, catalogErr
}

// NewCatalog parses and validates catalog JSON.
func NewCatalog(data []byte) (*Catalog, error) {
	var cats []RawCategory
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("trivia: parse catalog: %w", err)
	}
	if len(cats) == 0 {
		return nil, errors.New("trivia: catalog is empty")
	}
	byID := make(map[int64]RawCategory, len(cats))
	for _, c := range cats {
		if c.Title == "" || len(c.Clues) < game.NumClues {
			return nil, fmt.Errorf("trivia: catalog category %d is unusable", c.ID)
		}
		byID[c.ID] = c
	}
	return &Catalog{cats: cats, byID: byID}, nil
}

// Len reports how many categories the catalog holds.
func (c *Catalog) Len() int { return len(c.cats) }

// Categories lists count entries starting at offset, wrapping around the
// end of the catalog.
func (c *Catalog) Categories(ctx context.Context, count, offset int) ([]CategoryRef, error) {
	if count <= 0 {
		return nil, nil
	}
	if count > len(c.cats) {
		count = len(c.cats)
	}
	out := make([]CategoryRef, 0, count)
	for i := 0; i < count; i++ {
		cat := c.cats[(offset+i)%len(c.cats)]
		out = append(out, CategoryRef{ID: cat.ID, Title: cat.Title, CluesCount: len(cat.Clues)})
	}
	return out, nil
}

// Category returns the full payload for one catalog id.
func (c *Catalog) Category(ctx context.Context, id int64) (RawCategory, error) {
	cat, ok := c.byID[id]
	if !ok {
		return RawCategory{}, fmt.Errorf("trivia: catalog has no category %d", id)
	}
	return cat, nil
}
