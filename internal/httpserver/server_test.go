package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/store"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

// mockSource is a synthetic trivia source: 100 candidate categories, a
// 10-clue payload per id. Setting fail makes every call error, which
// lets a test flip the source into outage mode mid-flight.
type mockSource struct {
	fail bool
}

func (m *mockSource) Categories(ctx context.Context, count, offset int) ([]trivia.CategoryRef, error) {
	if m.fail {
		return nil, errors.New("source down")
	}
	out := make([]trivia.CategoryRef, 0, count)
	for i := 0; i < count; i++ {
		id := int64((offset+i)%100 + 1)
		out = append(out, trivia.CategoryRef{ID: id, Title: fmt.Sprintf("cat %d", id), CluesCount: 10})
	}
	return out, nil
}

func (m *mockSource) Category(ctx context.Context, id int64) (trivia.RawCategory, error) {
	if m.fail {
		return trivia.RawCategory{}, errors.New("source down")
	}
	raw := trivia.RawCategory{ID: id, Title: fmt.Sprintf("cat %d", id)}
	for j := 0; j < 10; j++ {
		raw.Clues = append(raw.Clues, trivia.RawClue{
			ID:       id*100 + int64(j),
			Question: fmt.Sprintf("q%d.%d", id, j),
			Answer:   fmt.Sprintf("a%d.%d", id, j),
		})
	}
	return raw, nil
}

// newTestServer wires a full server against a mock source and a
// throwaway sqlite file.
func newTestServer(t *testing.T) (*httptest.Server, *mockSource) {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	src := &mockSource{}
	s := New(store.NewMemoryStore(), src, db)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts, src
}

// newJarClient returns an http.Client that keeps cookies, so anon ids
// and auth tokens behave like a browser session.
func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

// postJSON posts body as JSON and decodes the response into out (if the
// status matches want).
func postJSON(t *testing.T, c *http.Client, url string, body, out any, want int) {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		t.Fatalf("POST %s: status %d, want %d", url, res.StatusCode, want)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("POST %s: decode: %v", url, err)
		}
	}
}

func getJSON(t *testing.T, c *http.Client, url string, out any, want int) {
	t.Helper()
	res, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		t.Fatalf("GET %s: status %d, want %d", url, res.StatusCode, want)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("GET %s: decode: %v", url, err)
		}
	}
}

func TestNewGameBuildsFullHiddenBoard(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newJarClient(t)

	var res newGameRes
	postJSON(t, c, ts.URL+"/game/new", newGameReq{}, &res, http.StatusOK)

	if res.GameID == "" {
		t.Fatal("no gameId returned")
	}
	if len(res.Categories) != game.NumCategories {
		t.Fatalf("board has %d categories", len(res.Categories))
	}
	for i, cat := range res.Categories {
		if cat.Title == "" {
			t.Fatalf("category %d missing title", i)
		}
		if len(cat.Clues) != game.NumClues {
			t.Fatalf("category %d has %d clues", i, len(cat.Clues))
		}
		for j, cl := range cat.Clues {
			if cl.Showing != game.ShowingHidden || cl.Text != "" {
				t.Fatalf("cell (%d,%d) not hidden: %+v", i, j, cl)
			}
		}
	}
}

func TestRevealCycleEndToEnd(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newJarClient(t)

	var board newGameRes
	postJSON(t, c, ts.URL+"/game/new", newGameReq{}, &board, http.StatusOK)

	// Column 2's title identifies which mocked category was selected, so
	// the expected clue text for cell (2,3) is known exactly.
	var catID int
	if _, err := fmt.Sscanf(board.Categories[2].Title, "cat %d", &catID); err != nil {
		t.Fatalf("unexpected title %q", board.Categories[2].Title)
	}

	var r1 revealRes
	postJSON(t, c, ts.URL+"/game/reveal", revealReq{GameID: board.GameID, Category: 2, Clue: 3}, &r1, http.StatusOK)
	if !r1.Changed || r1.Showing != game.ShowingQuestion || r1.Text != fmt.Sprintf("q%d.3", catID) {
		t.Fatalf("first click = %+v", r1.RevealResult)
	}

	var r2 revealRes
	postJSON(t, c, ts.URL+"/game/reveal", revealReq{GameID: board.GameID, Category: 2, Clue: 3}, &r2, http.StatusOK)
	if !r2.Changed || r2.Showing != game.ShowingAnswer || r2.Text != fmt.Sprintf("a%d.3", catID) {
		t.Fatalf("second click = %+v", r2.RevealResult)
	}
	if r2.Revealed != 1 {
		t.Fatalf("revealed count = %d", r2.Revealed)
	}

	var r3 revealRes
	postJSON(t, c, ts.URL+"/game/reveal", revealReq{GameID: board.GameID, Category: 2, Clue: 3}, &r3, http.StatusOK)
	if r3.Changed || r3.Text != "" {
		t.Fatalf("third click not ignored: %+v", r3.RevealResult)
	}

	// Out-of-range addressing is a caller bug, not a silent no-op.
	var errBody map[string]any
	postJSON(t, c, ts.URL+"/game/reveal", revealReq{GameID: board.GameID, Category: 9, Clue: 0}, &errBody, http.StatusBadRequest)

	// The installed board reflects the same state on re-read.
	var cur boardRes
	getJSON(t, c, ts.URL+"/game/"+board.GameID, &cur, http.StatusOK)
	if cur.Categories[2].Clues[3].Showing != game.ShowingAnswer || cur.Revealed != 1 || cur.Done {
		t.Fatalf("board state after reveals: %+v", cur)
	}
}

func TestAcquisitionFailureInstallsNothing(t *testing.T) {
	ts, src := newTestServer(t)
	c := newJarClient(t)

	var board newGameRes
	postJSON(t, c, ts.URL+"/game/new", newGameReq{}, &board, http.StatusOK)

	// Source goes down; a restart clears the old board and must not
	// install a partial replacement.
	src.fail = true
	var errBody map[string]any
	postJSON(t, c, ts.URL+"/game/new", newGameReq{PreviousGameID: board.GameID}, &errBody, http.StatusBadGateway)
	if errBody["error"] != "acquisition_failed" {
		t.Fatalf("error body = %v", errBody)
	}

	getJSON(t, c, ts.URL+"/game/"+board.GameID, nil, http.StatusNotFound)

	// Retry succeeds once the source recovers.
	src.fail = false
	var retry newGameRes
	postJSON(t, c, ts.URL+"/game/new", newGameReq{}, &retry, http.StatusOK)
	if retry.GameID == "" || len(retry.Categories) != game.NumCategories {
		t.Fatalf("retry board: %+v", retry.GameID)
	}
}

// revealAll drives every cell of a board to its terminal state.
func revealAll(t *testing.T, c *http.Client, baseURL, gameID string) {
	t.Helper()
	for i := 0; i < game.NumCategories; i++ {
		for j := 0; j < game.NumClues; j++ {
			for k := 0; k < 2; k++ {
				var r revealRes
				postJSON(t, c, baseURL+"/game/reveal", revealReq{GameID: gameID, Category: i, Clue: j}, &r, http.StatusOK)
			}
		}
	}
}

func TestAuthStatsAndHistory(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newJarClient(t)

	postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player_one", "password": "hunter2hunter2"}, nil, http.StatusOK)

	var board newGameRes
	postJSON(t, c, ts.URL+"/game/new", newGameReq{}, &board, http.StatusOK)

	var stats map[string]any
	getJSON(t, c, ts.URL+"/stats/me", &stats, http.StatusOK)
	if int(stats["boardsPlayed"].(float64)) != 1 {
		t.Fatalf("boardsPlayed = %v", stats["boardsPlayed"])
	}

	revealAll(t, c, ts.URL, board.GameID)

	getJSON(t, c, ts.URL+"/stats/me", &stats, http.StatusOK)
	total := game.NumCategories * game.NumClues
	if int(stats["cluesRevealed"].(float64)) != total {
		t.Fatalf("cluesRevealed = %v, want %d", stats["cluesRevealed"], total)
	}
	if int(stats["boardsCompleted"].(float64)) != 1 {
		t.Fatalf("boardsCompleted = %v", stats["boardsCompleted"])
	}

	var mine []map[string]any
	getJSON(t, c, ts.URL+"/games/mine", &mine, http.StatusOK)
	if len(mine) != 1 {
		t.Fatalf("games/mine has %d rows", len(mine))
	}
	if mine[0]["status"] != "done" || int(mine[0]["reveals"].(float64)) != total {
		t.Fatalf("history row = %v", mine[0])
	}
}

func TestDailyBoardFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newJarClient(t)

	var d1 dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", struct{}{}, &d1, http.StatusOK)
	if d1.Played || d1.GameID == "" {
		t.Fatalf("daily/new = %+v", d1)
	}

	// Same session comes back while the board is in progress.
	var d2 dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", struct{}{}, &d2, http.StatusOK)
	if d2.GameID != d1.GameID {
		t.Fatalf("daily session changed: %q then %q", d1.GameID, d2.GameID)
	}

	// A different player sees the same category selection that day.
	other := newJarClient(t)
	var d3 dailyNewRes
	postJSON(t, other, ts.URL+"/daily/new", struct{}{}, &d3, http.StatusOK)
	var mineBoard, theirBoard boardRes
	getJSON(t, c, ts.URL+"/game/"+d1.GameID, &mineBoard, http.StatusOK)
	getJSON(t, other, ts.URL+"/game/"+d3.GameID, &theirBoard, http.StatusOK)
	for i := range mineBoard.Categories {
		if mineBoard.Categories[i].Title != theirBoard.Categories[i].Title {
			t.Fatalf("daily boards diverge at column %d", i)
		}
	}

	// Completing an unfinished board is rejected.
	postJSON(t, c, ts.URL+"/daily/complete", dailyCompleteReq{GameID: d1.GameID}, nil, http.StatusConflict)

	revealAll(t, c, ts.URL, d1.GameID)

	var done dailyCompleteRes
	postJSON(t, c, ts.URL+"/daily/complete", dailyCompleteReq{GameID: d1.GameID}, &done, http.StatusOK)
	if done.Reveals != game.NumCategories*game.NumClues {
		t.Fatalf("recorded reveals = %d", done.Reveals)
	}

	// One result per day.
	var replay dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", struct{}{}, &replay, http.StatusOK)
	if !replay.Played {
		t.Fatalf("daily replay allowed: %+v", replay)
	}

	var lb lbRes
	getJSON(t, c, ts.URL+"/daily/leaderboard?date="+done.Date, &lb, http.StatusOK)
	if len(lb.Top) != 1 {
		t.Fatalf("leaderboard has %d rows", len(lb.Top))
	}
}

func TestHealthAndNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newJarClient(t)

	getJSON(t, c, ts.URL+"/health", nil, http.StatusOK)

	var nf map[string]any
	getJSON(t, c, ts.URL+"/nope/"+strconv.Itoa(404), &nf, http.StatusNotFound)
	if nf["error"] != "not_found" {
		t.Fatalf("404 body = %v", nf)
	}
}
