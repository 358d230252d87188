package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "selfplay")
	require.NoError(t, err)

	t.Run("examples", func(t *testing.T) {
		err := w.WriteExamples([]Example{{
			Game:    1,
			Step:    2,
			Player:  0,
			FEN:     "8/8/8/8/8/8/8/8 w - - 0 1",
			Move:    "d2d4",
			Moves:   []string{"e2e4", "d2d4"},
			Policy:  []float64{0.25, 0.75},
			Outcome: -1,
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "examples.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"game", "step", "player", "fen", "move", "moves", "policy", "outcome"}, rows[0])
		require.Equal(t, []string{"1", "2", "0", "8/8/8/8/8/8/8/8 w - - 0 1", "d2d4", "e2e4 d2d4", "0.2500 0.7500", "-1"}, rows[1])
	})

	t.Run("game and move records", func(t *testing.T) {
		require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 3, Agent1: 1, Agent2: 2, GameMetric: GameMetric{Outcome: 1, Termination: "checkmate", TotalMoves: 41}}}))
		require.NoError(t, w.WriteMoveRecords([]MoveRecord{{Game: 3, MoveMetric: MoveMetric{Step: 1, Player: 1, SearchMetric: SearchMetric{Episodes: 50, IsTreeReset: true}}}}))

		games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, games, 2)
		require.Equal(t, "checkmate", games[1][4])
		require.Equal(t, "41", games[1][5])

		moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, moves, 2)
		require.Equal(t, "50", moves[1][4])
		require.Equal(t, "true", moves[1][8])
	})

	t.Run("agent configs", func(t *testing.T) {
		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Iterations: 100, Mode: "train", Predictor: "material", Exploration: 2}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, []string{"1", "100", "train", "material", "2"}, rows[1])
	})
}
