package agent

import (
	"encoding/json"
	"errors"
	"net/http"

	"chessmcts/game"
	"chessmcts/searcher"

	"github.com/rs/zerolog/log"
)

// ServerConfig holds the defaults for requests that do not set their own.
type ServerConfig struct {
	Iterations   int
	Mode         searcher.Mode
	NewPredictor func() searcher.Predictor // nil for random playouts
	Options      []searcher.Option
}

type moveRequest struct {
	FEN        string `json:"fen"`
	Iterations int    `json:"iterations,omitempty"`
	Mode       string `json:"mode,omitempty"`
}

// NewServer returns a handler answering POST /move with the agent's move for a FEN.
// Every request is searched by its own agent.
func NewServer(config ServerConfig) http.Handler {
	// Create a local mux rather than using the global DefaultServeMux
	mux := http.NewServeMux()
	mux.HandleFunc("/move", func(w http.ResponseWriter, r *http.Request) {
		handleMove(w, r, config)
	})
	return mux
}

// StartAgentServer serves the agent on addr until the listener fails.
func StartAgentServer(addr string, config ServerConfig) error {
	log.Info().Msgf("starting agent server on %s", addr)
	return http.ListenAndServe(addr, NewServer(config))
}

func handleMove(w http.ResponseWriter, r *http.Request, config ServerConfig) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	state, err := game.ChessFromFEN(payload.FEN)
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if state.IsGameOver() {
		http.Error(w, "game is over", http.StatusConflict)
		return
	}

	iterations := config.Iterations
	if payload.Iterations > 0 {
		iterations = payload.Iterations
	}
	mode := config.Mode
	if payload.Mode != "" {
		mode, err = searcher.ParseMode(payload.Mode)
		if err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	var predictor searcher.Predictor
	if config.NewPredictor != nil {
		predictor = config.NewPredictor()
	}

	a, err := NewAgent(state, searcher.Maximizer, iterations, mode, predictor, config.Options...)
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	next, err := a.MakeMove(r.Context(), state)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, searcher.ErrGameOver) {
			status = http.StatusConflict
		}
		log.Error().Err(err).Msgf("search failed for %s", payload.FEN)
		http.Error(w, "search failed: "+err.Error(), status)
		return
	}

	decision := a.LastDecision()
	response := MoveReply{
		Move:   decision.Move,
		FEN:    next.String(),
		Moves:  decision.Moves,
		Policy: decision.Policy,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode move: "+err.Error(), http.StatusInternalServerError)
	}
}
