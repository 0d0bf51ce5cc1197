// internal/httpserver/server.go
//
// HTTP wiring for the word-duel backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Solo game endpoints (optional auth): POST /game/new, GET /game/{id},
//     POST /game/{id}/guess, DELETE /game/{id}.
//   - Room endpoints (optional auth): POST /rooms, GET /rooms,
//     GET /rooms/{id}, POST /rooms/{id}/join|leave|guess.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me,
//     /games/mine.
//
// Notes:
//   - The engine errors map onto HTTP statuses in one place (writeErr);
//     handlers never inspect error strings.
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Clients poll GET /rooms/{id}; every response is a full, consistent
//     snapshot, so any polling cadence is safe.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wordduel/server/internal/game"
	"github.com/wordduel/server/internal/registry"
	"github.com/wordduel/server/internal/room"
	"github.com/wordduel/server/internal/words"
)

// Server bundles router, registries, word list and DB handle.
type Server struct {
	r        *chi.Mux
	sessions *registry.Sessions
	rooms    *registry.Rooms
	list     *words.List
	db       *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(sessions *registry.Sessions, rooms *registry.Rooms, list *words.List, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), sessions: sessions, rooms: rooms, list: list, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordduel",
			"endpoints": []string{"/health", "POST /game/new", "POST /rooms", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":    true,
			"games": s.sessions.Count(),
			"rooms": s.rooms.Count(),
		})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.list.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
	})

	// Solo games — OPTIONAL AUTH (guests can play)
	s.r.Group(func(gr chi.Router) {
		gr.Use(s.withOptionalAuth())
		gr.Post("/game/new", s.handleNewGame)
		gr.Get("/game/{id}", s.handleGetGame)
		gr.Post("/game/{id}/guess", s.handleGuess)
		gr.Delete("/game/{id}", s.handleDeleteGame)
	})

	// Rooms — OPTIONAL AUTH (an account name wins over the body name)
	s.r.Group(func(gr chi.Router) {
		gr.Use(s.withOptionalAuth())
		gr.Post("/rooms", s.handleNewRoom)
		gr.Get("/rooms", s.handleListRooms)
		gr.Get("/rooms/{id}", s.handleGetRoom)
		gr.Post("/rooms/{id}/join", s.handleJoinRoom)
		gr.Post("/rooms/{id}/leave", s.handleLeaveRoom)
		gr.Post("/rooms/{id}/guess", s.handleRoomGuess)
		gr.Delete("/rooms/{id}", s.handleDeleteRoom)
	})

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ SOLO GAMES ---------------------------------

type newGameReq struct {
	MaxRounds int `json:"maxRounds"` // optional; 0 takes the server default
}

// handleNewGame creates a game and persists a DB owner row (user or anon)
// for history/stats. The answer never touches the database row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	proj, err := s.sessions.Create(r.Context(), req.MaxRounds)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.recordGameStart(w, r, proj.ID)
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	proj, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

type guessReq struct {
	Guess string `json:"guess"`
}

// handleGuess applies a guess, persists progress, and (if finished) updates
// user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	id := chi.URLParam(r, "id")
	proj, err := s.sessions.SubmitGuess(r.Context(), id, req.Guess)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.recordGameProgress(w, r, proj)
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ------------------------------- ROOMS -------------------------------------

func (s *Server) handleNewRoom(w http.ResponseWriter, r *http.Request) {
	proj, err := s.rooms.Create(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": s.rooms.List(r.Context())})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	proj, err := s.rooms.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

type roomPlayerReq struct {
	Player string `json:"player"`
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req roomPlayerReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	proj, err := s.rooms.Join(r.Context(), chi.URLParam(r, "id"), s.playerName(r, req.Player))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	var req roomPlayerReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	proj, err := s.rooms.Leave(r.Context(), chi.URLParam(r, "id"), s.playerName(r, req.Player))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

type roomGuessReq struct {
	Player string `json:"player"`
	Guess  string `json:"guess"`
}

func (s *Server) handleRoomGuess(w http.ResponseWriter, r *http.Request) {
	var req roomGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	proj, err := s.rooms.SubmitGuess(r.Context(), chi.URLParam(r, "id"), s.playerName(r, req.Player), req.Guess)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := s.rooms.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// playerName prefers the authenticated account name over the body name, so
// a signed-in player cannot impersonate someone else's seat.
func (s *Server) playerName(r *http.Request, bodyName string) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.Username
	}
	return bodyName
}

// ----------------------------- error mapping --------------------------------

// writeErr maps engine errors onto HTTP statuses. Unknown errors become 500s
// without leaking internals.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	case errors.Is(err, game.ErrInvalidGuess):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, game.ErrGameOver):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "game_over"})
	case errors.Is(err, game.ErrConfig):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, room.ErrRoomFull),
		errors.Is(err, room.ErrAlreadyJoined),
		errors.Is(err, room.ErrNotActive):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, room.ErrNotPlayer), errors.Is(err, room.ErrBadPlayer):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
