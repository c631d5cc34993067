// internal/trivia/session.go
//
// Board session building on top of a Source.
// Responsibilities:
//   - Pick NumCategories distinct category ids from a randomized window
//     of the source's catalog.
//   - Fetch each category sequentially, in selection order, projecting
//     raw payloads into board-ready clues (first NumClues, in order).
//   - Accumulate into a local result and return it whole; on any failure
//     nothing partial ever escapes.
//
// All failures come back as *AcquisitionError.

package trivia

import (
	"context"
	"crypto/rand"
	"fmt"
	"html"
	"math"
	"math/big"
	mrand "math/rand"
	"strings"
	"time"

	"github.com/robalobadob/jeopardy/internal/game"
)

const (
	// candidateWindow is how many catalog entries one selection draws from.
	candidateWindow = 100
	// maxOffset bounds the randomized window start, so different runs see
	// different regions of the source's catalog.
	maxOffset = 1000
)

// SelectCategoryIDs picks game.NumCategories distinct category ids from a
// randomized window of the source catalog. The ids come back in selection
// order, which is also the final board column order.
func SelectCategoryIDs(ctx context.Context, src Source, rng *mrand.Rand) ([]int64, error) {
	offset := rng.Intn(maxOffset)
	refs, err := src.Categories(ctx, candidateWindow, offset)
	if err != nil {
		return nil, acquisition("select categories", err)
	}
	if len(refs) < game.NumCategories {
		return nil, acquisition("select categories",
			fmt.Errorf("source returned %d candidates, need %d", len(refs), game.NumCategories))
	}

	// Uniform sample without replacement: shuffle the window, take the head.
	picked := make([]CategoryRef, len(refs))
	copy(picked, refs)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })

	ids := make([]int64, game.NumCategories)
	for i := range ids {
		ids[i] = picked[i].ID
	}
	return ids, nil
}

// FetchCategory fetches one category and projects it into board shape:
// the first game.NumClues clues in payload order (the tail of a payload
// tends to carry near-duplicates, so sampling is deliberately avoided),
// each reduced to question/answer with showing reset to hidden.
func FetchCategory(ctx context.Context, src Source, id int64) (game.Category, error) {
	raw, err := src.Category(ctx, id)
	if err != nil {
		return game.Category{}, acquisition("fetch category", err)
	}
	cat, err := projectCategory(raw)
	if err != nil {
		return game.Category{}, acquisition("fetch category", err)
	}
	return cat, nil
}

// projectCategory validates a raw payload and reduces it to board shape.
func projectCategory(raw RawCategory) (game.Category, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return game.Category{}, fmt.Errorf("category %d: missing title", raw.ID)
	}
	if len(raw.Clues) < game.NumClues {
		return game.Category{}, fmt.Errorf("category %d: only %d clues, need %d", raw.ID, len(raw.Clues), game.NumClues)
	}

	cat := game.Category{
		ID:    raw.ID,
		Title: html.UnescapeString(title),
		Clues: make([]game.Clue, game.NumClues),
	}
	for i := 0; i < game.NumClues; i++ {
		rc := raw.Clues[i]
		if strings.TrimSpace(rc.Question) == "" || strings.TrimSpace(rc.Answer) == "" {
			return game.Category{}, fmt.Errorf("category %d: clue %d missing text", raw.ID, i)
		}
		cat.Clues[i] = game.Clue{
			// The public API serves entity-encoded text.
			Question: html.UnescapeString(rc.Question),
			Answer:   html.UnescapeString(rc.Answer),
			Showing:  game.ShowingHidden,
		}
	}
	return cat, nil
}

// BuildSession builds a complete board from the source using a fresh
// random seed. See BuildSeeded for the contract.
func BuildSession(ctx context.Context, src Source) ([]game.Category, error) {
	return BuildSeeded(ctx, src, randomSeed())
}

// BuildSeeded builds a complete board deterministically from seed: the
// same seed against the same catalog always selects the same categories.
// Fetches run sequentially in selection order; the result accumulates
// locally and is returned only when every category succeeded. Any error
// aborts the whole build — callers never see a partial board.
func BuildSeeded(ctx context.Context, src Source, seed int64) ([]game.Category, error) {
	rng := mrand.New(mrand.NewSource(seed))

	ids, err := SelectCategoryIDs(ctx, src, rng)
	if err != nil {
		return nil, err
	}

	cats := make([]game.Category, 0, len(ids))
	for _, id := range ids {
		cat, err := FetchCategory(ctx, src, id)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// randomSeed returns a crypto-random seed for board selection.
func randomSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return time.Now().UnixNano()
	}
	return n.Int64()
}
