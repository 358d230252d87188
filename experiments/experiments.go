package experiments

import (
	"context"
	"fmt"

	"chessmcts/engine"
	"chessmcts/experiments/metrics"
	"chessmcts/game"
	"chessmcts/searcher"
	"chessmcts/searcher/agent"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Config describes a self-play run. Both agents of every game share it.
type Config struct {
	Games      int
	Workers    int
	Iterations int
	Mode       searcher.Mode
	MaxPlies   int
	Seed       uint64 // 0 seeds from the clock
	Predictor  string // "" for random playouts, see NewPredictorFactory
	NewState   func() game.State
	Renderer   *termenv.Output
}

// GameResult is one finished self-play game.
type GameResult struct {
	ID int
	engine.Result
}

// NewPredictorFactory maps a predictor name to a constructor. The factory is
// nil for random playouts.
func NewPredictorFactory(name string) (func() searcher.Predictor, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "material":
		return func() searcher.Predictor { return game.NewMaterialPredictor() }, nil
	case "mobility":
		return func() searcher.Predictor { return &game.MaterialPredictor{Evaluate: game.EvaluateMobility} }, nil
	default:
		return nil, fmt.Errorf("%w: unknown predictor %q", searcher.ErrConfiguration, name)
	}
}

// RunSelfPlay plays cfg.Games games on at most cfg.Workers goroutines. Every game
// has its own agents and predictors. The first failing game cancels the rest.
func RunSelfPlay(ctx context.Context, cfg Config) ([]GameResult, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("%w: games must be positive, got %d", searcher.ErrConfiguration, cfg.Games)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.NewState == nil {
		cfg.NewState = func() game.State { return game.NewChess() }
	}
	newPredictor, err := NewPredictorFactory(cfg.Predictor)
	if err != nil {
		return nil, err
	}

	results := make([]GameResult, cfg.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := 0; i < cfg.Games; i++ {
		i := i // per-iteration copy (go directive is below 1.22)
		g.Go(func() error {
			log.Info().Msgf("starting game %d of %d...", i+1, cfg.Games)
			result, err := runGame(ctx, cfg, i, newPredictor)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = GameResult{ID: i + 1, Result: result}
			log.Info().Msgf("completed game %d of %d with outcome %v", i+1, cfg.Games, result.Outcome)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runGame(ctx context.Context, cfg Config, index int, newPredictor func() searcher.Predictor) (engine.Result, error) {
	state := cfg.NewState()

	agents := [2]*agent.Agent{}
	for player := range agents {
		var predictor searcher.Predictor
		if newPredictor != nil {
			predictor = newPredictor()
		}
		options := []searcher.Option{searcher.WithMetrics()}
		if cfg.Seed != 0 {
			options = append(options, searcher.WithSeed(cfg.Seed+uint64(2*index+player)))
		}
		a, err := agent.NewAgent(state, player, cfg.Iterations, cfg.Mode, predictor, options...)
		if err != nil {
			return engine.Result{}, err
		}
		agents[player] = a
	}

	options := []engine.Option{engine.WithMaxPlies(cfg.MaxPlies)}
	if cfg.Renderer != nil {
		options = append(options, engine.WithRenderer(cfg.Renderer))
	}
	return engine.LocalEngine(state, agents, options...).Run(ctx)
}

// RunExperiment runs self-play and stores configs, games, moves and training
// examples under dir/name. It returns the directory written to.
func RunExperiment(ctx context.Context, dir, name string, cfg Config) (string, error) {
	log.Info().Msgf("starting %s experiment...", name)
	results, err := RunSelfPlay(ctx, cfg)
	if err != nil {
		return "", err
	}
	log.Info().Msgf("completed %s experiment", name)

	configs := []metrics.AgentConfig{
		{ID: 1, Iterations: cfg.Iterations, Mode: string(cfg.Mode), Predictor: cfg.Predictor, Exploration: searcher.C},
		{ID: 2, Iterations: cfg.Iterations, Mode: string(cfg.Mode), Predictor: cfg.Predictor, Exploration: searcher.C},
	}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	examples := []metrics.Example{}
	for _, result := range results {
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         result.ID,
			Agent1:     configs[0].ID,
			Agent2:     configs[1].ID,
			GameMetric: result.Game,
		})
		for _, mm := range result.Moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: result.ID, MoveMetric: mm})
		}
		for _, example := range result.Examples {
			example.Game = result.ID
			examples = append(examples, example)
		}
	}

	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	if err := writer.WriteExamples(examples); err != nil {
		return "", fmt.Errorf("failed to write examples: %w", err)
	}
	log.Info().Msgf("stored %d training examples", len(examples))

	return writer.Dir(), nil
}
