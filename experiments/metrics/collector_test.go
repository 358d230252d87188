package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts one search", func(t *testing.T) {
		c := NewCollector()
		c.Start(10, "test")
		c.AddEpisode()
		c.AddEpisode()
		c.AddFullPlayout()
		c.AddPrediction()
		c.SetCutOff()

		got := c.Complete()

		require.Equal(t, 10, got.Iterations)
		require.Equal(t, "test", got.Mode)
		require.Equal(t, 2, got.Episodes)
		require.Equal(t, 1, got.FullPlayouts)
		require.Equal(t, 1, got.Predictions)
		require.True(t, got.IsCutOff)
	})

	t.Run("start clears counters but keeps tree reset", func(t *testing.T) {
		c := NewCollector()
		c.Start(10, "test")
		c.AddEpisode()
		c.SetCutOff()
		c.SetTreeReset(true)

		c.Start(5, "train")
		got := c.Complete()

		require.Equal(t, 0, got.Episodes)
		require.False(t, got.IsCutOff)
		require.True(t, got.IsTreeReset)
	})

	t.Run("dummy collector reports nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(10, "test")
		c.AddEpisode()

		require.Equal(t, SearchMetric{}, c.Complete())
	})
}
