// internal/httpserver/routes_game.go
//
// HTTP routes for regular board play.
//   - POST /game/new    → discard any previous board, build a fresh one,
//                         install it only if acquisition fully succeeded
//   - GET  /game/{id}   → current board view
//   - POST /game/reveal → advance one clue through hidden→question→answer
//
// Board acquisition is all-or-nothing: a failed build installs nothing
// and reports one generic error inviting retry.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/store"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	// PreviousGameID, when set, is discarded before the new board is built.
	PreviousGameID string `json:"previousGameId"`
}
type newGameRes struct {
	GameID     string              `json:"gameId"`
	Categories []game.CategoryView `json:"categories"`
}

// handleNewGame is the start/restart trigger. Sequence: drop the caller's
// previous board, build a complete new one from the trivia source, and
// install it only on full success. On acquisition failure nothing is
// installed and the caller may simply retry.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.PreviousGameID != "" {
		_ = s.store.Delete(r.Context(), req.PreviousGameID)
	}

	cats, err := trivia.BuildSession(r.Context(), s.src)
	if err != nil {
		log.Error().Err(err).Msg("board acquisition failed")
		http.Error(w, `{"error":"acquisition_failed","retry":true}`, http.StatusBadGateway)
		return
	}
	g, err := game.New(cats)
	if err != nil {
		log.Error().Err(err).Msg("acquired board has bad shape")
		http.Error(w, `{"error":"acquisition_failed","retry":true}`, http.StatusBadGateway)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save board")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist owner row for history/stats (best effort).
	now := time.Now().UTC().Format(time.RFC3339)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		if _, err := s.db.Exec(`INSERT INTO games (id, user_id, started_at, status, reveals)
		                        VALUES (?,?,?,?,0)`, g.ID, me.ID, now, "playing"); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert user game row")
		}
		if err := s.bumpPlayed(me.ID); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump boards played")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		if _, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, started_at, status, reveals)
		                        VALUES (?,?,?,?,0)`, g.ID, anon, now, "playing"); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert anon game row")
		}
	}

	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, Categories: g.View()})
}

// boardRes is the board-state payload shared by GET /game/{id} and reveal.
type boardRes struct {
	GameID     string              `json:"gameId"`
	Categories []game.CategoryView `json:"categories"`
	Revealed   int                 `json:"revealed"`
	Done       bool                `json:"done"`
}

// handleGetGame returns the current view of an installed board.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(boardRes{
		GameID:     g.ID,
		Categories: g.View(),
		Revealed:   g.Revealed(),
		Done:       g.Done(),
	})
}

// revealReq/Res payloads for POST /game/reveal.
type revealReq struct {
	GameID   string `json:"gameId"`
	Category int    `json:"category"`
	Clue     int    `json:"clue"`
}
type revealRes struct {
	game.RevealResult
	Revealed int  `json:"revealed"`
	Done     bool `json:"done"`
}

// handleReveal is the cell-clicked trigger: it advances the addressed
// clue one step and persists progress. Reveals on an already-answered
// clue are a no-op; out-of-range indices are a caller bug and 400.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return
	}

	res, err := g.Reveal(req.Category, req.Clue)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist counters/history when a clue reaches its terminal state
	// (best effort, non-fatal if it fails).
	if res.Changed && res.Showing == game.ShowingAnswer {
		s.persistReveal(r, w, g)
	}

	_ = json.NewEncoder(w).Encode(revealRes{RevealResult: res, Revealed: g.Revealed(), Done: g.Done()})
}

// persistReveal bumps the board's reveal counter and, when the board is
// finished, marks it done and credits user stats.
func (s *Server) persistReveal(r *http.Request, w http.ResponseWriter, g *game.Game) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause := `anonymous_id=?`
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = any(me.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin reveal tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET reveals = reveals + 1 WHERE id=? AND `+ownerClause, g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update reveals")
	}
	if me != nil {
		if err := bumpRevealed(tx, me.ID); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump clues revealed")
		}
	}

	if g.Done() {
		if _, err := tx.Exec(`UPDATE games SET status='done', finished_at=? WHERE id=? AND `+ownerClause,
			time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish board")
		}
		if me != nil {
			if err := bumpCompleted(tx, me.ID); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump boards completed")
			}
		}
	}
	_ = tx.Commit()
}
