package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessmcts/experiments"
	"chessmcts/game"
	"chessmcts/meta"
	"chessmcts/searcher"
	"chessmcts/searcher/agent"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	games := flag.Int("games", meta.GAMES, "Number of self-play games")
	workers := flag.Int("workers", meta.WORKERS, "Number of games played concurrently")
	iterations := flag.Int("iterations", meta.ITERATIONS, "Number of MCTS iterations per move")
	mode := flag.String("mode", meta.MODE, "Search mode (train, test)")
	maxPlies := flag.Int("max-plies", meta.MAX_PLIES, "Maximum plies per game")
	predictor := flag.String("predictor", "", "Leaf predictor (none, material, mobility)")
	seed := flag.Uint64("seed", 0, "Random seed (0 = use current time)")
	out := flag.String("out", "results", "Output directory for experiment records")
	name := flag.String("name", "selfplay", "Experiment name")
	serve := flag.String("serve", "", "Serve the agent on this address instead of playing (e.g. "+meta.SERVER_ADDR+")")
	remote := flag.String("remote", "", "Ask the agent server at this URL for a move from -fen")
	fen := flag.String("fen", "", "Starting position in FEN (default: standard start)")
	verbose := flag.Bool("verbose", false, "Enable debug logging and board rendering")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	searchMode, err := searcher.ParseMode(*mode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}
	newState, err := startPosition(*fen)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *serve != "":
		newPredictor, err := experiments.NewPredictorFactory(*predictor)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid flags")
		}
		config := agent.ServerConfig{Iterations: *iterations, Mode: searchMode, NewPredictor: newPredictor}
		if err := agent.StartAgentServer(*serve, config); err != nil {
			log.Fatal().Err(err).Msg("agent server stopped")
		}

	case *remote != "":
		reply, err := agent.NewClient(*remote).RequestMove(ctx, newState().String(), *iterations, *mode)
		if err != nil {
			log.Fatal().Err(err).Msg("remote move failed")
		}
		fmt.Println(reply.Move)
		if next, err := game.ChessFromFEN(reply.FEN); err == nil {
			fmt.Print(game.Render(next, termenv.NewOutput(os.Stdout)))
		}

	default:
		cfg := experiments.Config{
			Games:      *games,
			Workers:    *workers,
			Iterations: *iterations,
			Mode:       searchMode,
			MaxPlies:   *maxPlies,
			Seed:       *seed,
			Predictor:  *predictor,
			NewState:   newState,
		}
		if *verbose {
			cfg.Renderer = termenv.NewOutput(os.Stderr)
		}
		dir, err := experiments.RunExperiment(ctx, *out, *name, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("experiment failed")
		}
		log.Info().Msgf("records written to %s", dir)
	}
}

func startPosition(fen string) (func() game.State, error) {
	if fen == "" {
		return func() game.State { return game.NewChess() }, nil
	}
	if _, err := game.ChessFromFEN(fen); err != nil {
		return nil, err
	}
	return func() game.State {
		state, _ := game.ChessFromFEN(fen)
		return state
	}, nil
}
