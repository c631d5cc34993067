// internal/game/types.go
//
// Core type definitions for the trivia board engine.
// Defines:
//   - Showing: per-clue reveal state (hidden/question/answer).
//   - Clue, Category: the board's cell and column types.
//   - Game: state for a single board session.

package game

const (
	// NumCategories is the number of category columns on a board.
	NumCategories = 6
	// NumClues is the number of clue rows per category.
	NumClues = 5
)

// Showing represents how much of a clue has been revealed.
// Possible values:
//   - "hidden":   nothing shown yet.
//   - "question": the question text is visible.
//   - "answer":   the answer text is visible (terminal).
type Showing string

const (
	ShowingHidden   Showing = "hidden"
	ShowingQuestion         = "question"
	ShowingAnswer           = "answer"
)

// Clue is a single board cell: a question/answer pair plus its reveal state.
type Clue struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Showing  Showing `json:"showing"`
}

// Category is a titled column of exactly NumClues clues.
type Category struct {
	ID    int64  `json:"id"`    // source catalog identifier
	Title string `json:"title"` // display title
	Clues []Clue `json:"clues"`
}

// Game holds the state of a single board session.
type Game struct {
	ID         string     // Unique game identifier (random hex string).
	Categories []Category // Exactly NumCategories columns, fixed at creation.
	DailyDate  string     // "YYYY-MM-DD" for daily boards, empty otherwise.
}

// RevealResult is what a reveal call hands back to the interaction layer.
// Changed is false when the clue was already fully revealed; in that case
// Text is empty and the request had no effect.
type RevealResult struct {
	Showing Showing `json:"showing"`
	Text    string  `json:"text"`
	Changed bool    `json:"changed"`
}
