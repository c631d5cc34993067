// internal/trivia/trivia.go
//
// Shared contracts for trivia data acquisition.
// Defines:
//   - Source: anything that can list categories and serve full clue data.
//   - Wire types (CategoryRef, RawCategory, RawClue) shared by the HTTP
//     client and the embedded catalog.
//   - AcquisitionError: the single failure kind for every acquisition
//     problem (network, bad status, malformed payload, short candidate
//     batch). Callers treat all of them the same way.

package trivia

import (
	"context"
	"errors"
	"fmt"
)

// Source abstracts the trivia catalog. Implemented by Client (remote HTTP
// API) and Catalog (embedded data).
type Source interface {
	// Categories lists up to count candidate categories starting at offset.
	Categories(ctx context.Context, count, offset int) ([]CategoryRef, error)

	// Category returns the full clue payload for one category id.
	Category(ctx context.Context, id int64) (RawCategory, error)
}

// CategoryRef is a catalog listing entry. Only ID is load-bearing; the
// rest is carried for logging and debugging.
type CategoryRef struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CluesCount int    `json:"clues_count"`
}

// RawClue is a clue as the source serves it, before projection.
type RawClue struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RawCategory is a full category payload as the source serves it. Sources
// may return more clues than a board needs.
type RawCategory struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Clues []RawClue `json:"clues"`
}

// AcquisitionError wraps any failure while acquiring board data. The
// cause is preserved for logs; user-facing handling never distinguishes
// causes.
type AcquisitionError struct {
	Op  string // operation that failed, e.g. "select categories"
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("trivia: %s: %v", e.Op, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// acquisition wraps err as an AcquisitionError, unless it already is one.
func acquisition(op string, err error) error {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return err
	}
	return &AcquisitionError{Op: op, Err: err}
}

// IsAcquisition reports whether err is (or wraps) an AcquisitionError.
func IsAcquisition(err error) bool {
	var ae *AcquisitionError
	return errors.As(err, &ae)
}
