// internal/game/board.go
//
// Core engine for a single trivia board session.
// Responsibilities:
//   - Create new board sessions with a validated 6x5 shape.
//   - Apply reveal requests addressed by (category index, clue index).
//   - Enforce the reveal state machine: hidden → question → answer,
//     with answer terminal.
//   - Produce a client-safe view that never leaks unrevealed text.
//
// Notes:
//   - Categories/clues are produced by the trivia package; this package
//     only checks shape, it never fetches.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrBadShape is returned by New when the category collection does not
// form a complete NumCategories x NumClues board.
var ErrBadShape = errors.New("game: incomplete board shape")

// New constructs a board session from a finished category collection.
// The shape is validated up front so that (category, clue) addressing is
// guaranteed to resolve for the lifetime of the session.
func New(cats []Category) (*Game, error) {
	if len(cats) != NumCategories {
		return nil, fmt.Errorf("%w: got %d categories, want %d", ErrBadShape, len(cats), NumCategories)
	}
	for i, c := range cats {
		if len(c.Clues) != NumClues {
			return nil, fmt.Errorf("%w: category %d has %d clues, want %d", ErrBadShape, i, len(c.Clues), NumClues)
		}
	}
	return &Game{
		ID:         randomID(),
		Categories: cats,
	}, nil
}

// Reveal advances the addressed clue one step through the state machine,
// mutating the game state.
//
// Transition rules:
//   - hidden   → question: returns the question text.
//   - question → answer:   returns the answer text.
//   - answer   → answer:   no-op; Changed=false, empty text.
//
// Out-of-range indices are a contract violation by the caller and fail
// with an error rather than being silently ignored.
func (g *Game) Reveal(catIdx, clueIdx int) (RevealResult, error) {
	if catIdx < 0 || catIdx >= len(g.Categories) {
		return RevealResult{}, fmt.Errorf("game: category index %d out of range", catIdx)
	}
	cat := &g.Categories[catIdx]
	if clueIdx < 0 || clueIdx >= len(cat.Clues) {
		return RevealResult{}, fmt.Errorf("game: clue index %d out of range", clueIdx)
	}
	clue := &cat.Clues[clueIdx]

	switch clue.Showing {
	case ShowingHidden:
		clue.Showing = ShowingQuestion
		return RevealResult{Showing: ShowingQuestion, Text: clue.Question, Changed: true}, nil
	case ShowingQuestion:
		clue.Showing = ShowingAnswer
		return RevealResult{Showing: ShowingAnswer, Text: clue.Answer, Changed: true}, nil
	default:
		// Already fully revealed: the request is ignored.
		return RevealResult{Showing: ShowingAnswer, Changed: false}, nil
	}
}

// Revealed counts clues that have reached the terminal answer state.
func (g *Game) Revealed() int {
	n := 0
	for _, c := range g.Categories {
		for _, cl := range c.Clues {
			if cl.Showing == ShowingAnswer {
				n++
			}
		}
	}
	return n
}

// Done reports whether every clue on the board has been fully revealed.
func (g *Game) Done() bool {
	return g.Revealed() == len(g.Categories)*NumClues
}

// CategoryView/ClueView are the client-facing render model. Text carries
// only what the reveal state already exposes.
type CategoryView struct {
	Title string     `json:"title"`
	Clues []ClueView `json:"clues"`
}
type ClueView struct {
	Showing Showing `json:"showing"`
	Text    string  `json:"text,omitempty"`
}

// View projects the board into its render model. Hidden clues carry no
// text at all, so a client can never read ahead of the state machine.
func (g *Game) View() []CategoryView {
	out := make([]CategoryView, len(g.Categories))
	for i, c := range g.Categories {
		cv := CategoryView{Title: c.Title, Clues: make([]ClueView, len(c.Clues))}
		for j, cl := range c.Clues {
			v := ClueView{Showing: cl.Showing}
			switch cl.Showing {
			case ShowingQuestion:
				v.Text = cl.Question
			case ShowingAnswer:
				v.Text = cl.Answer
			}
			cv.Clues[j] = v
		}
		out[i] = cv
	}
	return out
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
