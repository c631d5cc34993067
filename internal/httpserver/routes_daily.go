// internal/httpserver/routes_daily.go
//
// HTTP routes for the shared daily board.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's board (creates or reuses session)
//   - POST /daily/complete    → record a fully-revealed daily board
//   - GET  /daily/leaderboard → fetch top results for today (or a given date)
//
// Everyone gets the same category selection on a given date: the board is
// built from a deterministic seed, HMAC(salt, YYYY-MM-DD). Each user can
// record one result per day (enforced by DB + in-memory session). Reveals
// on a daily board go through the regular /game/reveal endpoint.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/daily"
	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily board.
type dailySession struct {
	GameID   string
	UserID   string
	Date     string
	Start    time.Time
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/complete", dd.handleComplete)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the user already has a result for today → Played=true.
// - Otherwise build today's seeded board (or reuse the active session).
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	now := time.Now()
	date := daily.DateKey(now)

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: "", Date: date, Played: true})
		return
	}

	// Reuse an active session if one exists.
	key := uid + "|" + date
	d.mu.Lock()
	if sess, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Played: false})
		return
	}
	d.mu.Unlock()

	// Build today's board. The seed is purely date+salt, so every player
	// gets the same categories; the reveal state is per player.
	cats, err := trivia.BuildSeeded(r.Context(), d.srv.src, daily.Seed(now, d.salt))
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily board acquisition failed")
		http.Error(w, `{"error":"acquisition_failed","retry":true}`, http.StatusBadGateway)
		return
	}
	g, err := game.New(cats)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily board has bad shape")
		http.Error(w, `{"error":"acquisition_failed","retry":true}`, http.StatusBadGateway)
		return
	}
	g.DailyDate = date
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	d.mu.Lock()
	// Another request may have raced us; keep the first session.
	if sess, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Played: false})
		return
	}
	sess := &dailySession{GameID: g.ID, UserID: uid, Date: date, Start: time.Now()}
	d.sessions[key] = sess
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: g.ID, Date: date, Played: false})
}

// -----------------------------------------------------------------------------
// /daily/complete

// dailyCompleteReq is the request payload for /daily/complete.
type dailyCompleteReq struct {
	GameID string `json:"gameId"`
}

// dailyCompleteRes is the response payload for /daily/complete.
type dailyCompleteRes struct {
	Date      string `json:"date"`
	Reveals   int    `json:"reveals"`
	ElapsedMs int    `json:"elapsedMs"`
}

// handleComplete records today's result once the board is fully revealed.
// - Rejects unknown sessions and boards with clues still unrevealed.
// - Persists at most one result per user per day.
func (d *dailyServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyCompleteReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}

	date := daily.DateKey(time.Now())
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.GameID != p.GameID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	if sess.Finished {
		http.Error(w, `{"error":"already_recorded"}`, http.StatusConflict)
		return
	}

	g, err := d.srv.store.Get(r.Context(), p.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if !g.Done() {
		http.Error(w, `{"error":"board_not_finished"}`, http.StatusConflict)
		return
	}

	elapsed := int(time.Since(sess.Start).Milliseconds())
	if err := d.store.InsertResult(r.Context(), daily.Result{
		UserID: uid, Date: date, Reveals: g.Revealed(), ElapsedMs: elapsed,
	}); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}

	d.mu.Lock()
	sess.Finished = true
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyCompleteRes{Date: date, Reveals: g.Revealed(), ElapsedMs: elapsed})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
