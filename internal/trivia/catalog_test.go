package trivia

import (
	"context"
	"testing"

	"github.com/robalobadob/jeopardy/internal/game"
)

func TestDefaultCatalogBuildsBoards(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("embedded catalog unusable: %v", err)
	}
	if cat.Len() < game.NumCategories {
		t.Fatalf("catalog holds %d categories, need at least %d", cat.Len(), game.NumCategories)
	}

	cats, err := BuildSession(context.Background(), cat)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != game.NumCategories {
		t.Fatalf("got %d categories", len(cats))
	}
}

func TestCatalogWindowWrapsAround(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	// Any offset must still yield a full window of distinct entries.
	refs, err := cat.Categories(context.Background(), cat.Len(), cat.Len()-2)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != cat.Len() {
		t.Fatalf("got %d refs", len(refs))
	}
	seen := make(map[int64]bool)
	for _, r := range refs {
		if seen[r.ID] {
			t.Fatalf("duplicate id %d in wrapped window", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestNewCatalogRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"garbage":      "{",
		"empty":        "[]",
		"short-clues":  `[{"id":1,"title":"x","clues":[{"question":"q","answer":"a"}]}]`,
		"missing-title": `[{"id":1,"clues":[{},{},{},{},{}]}]`,
	}
	for name, data := range cases {
		if _, err := NewCatalog([]byte(data)); err == nil {
			t.Fatalf("%s catalog accepted", name)
		}
	}
}
