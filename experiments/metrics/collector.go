package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Iterations   int
	Mode         string
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	Predictions  int
	IsCutOff     bool // Search stopped at a terminal leaf
	IsTreeReset  bool // Tree was rebuilt instead of re-anchored before this search
}

type MoveMetric struct {
	Step   int
	Player int // Player tag, 0 or 1
	SearchMetric
}

type GameMetric struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalMoves  int
	Outcome     float64 // 1 first player won, -1 second player won, 0 draw or unfinished
	Termination string
}

// Example is one training sample: a searched position, the visit distribution
// over its moves and the final game outcome.
type Example struct {
	Game    int
	Step    int
	Player  int
	FEN     string
	Move    string // Move played from FEN
	Moves   []string
	Policy  []float64
	Outcome float64
}

type Collector interface {
	Start(iterations int, mode string)
	SetTreeReset(value bool)
	SetCutOff()
	AddFullPlayout()
	AddPrediction()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	iterations   int
	mode         string
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	predictions  atomic.Int32
	isCutOff     atomic.Bool
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

// Start clears the per-search counters. The tree reset flag is kept because it
// is set between searches.
func (m *collector) Start(iterations int, mode string) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.mode = mode
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.predictions.Store(0)
	m.isCutOff.Store(false)
}

func (m *collector) SetCutOff() {
	m.isCutOff.Store(true)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddPrediction() {
	m.predictions.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Iterations:   m.iterations,
		Mode:         m.mode,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Predictions:  int(m.predictions.Load()),
		IsCutOff:     m.isCutOff.Load(),
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations int, mode string) {}
func (m *dummyCollector) SetTreeReset(value bool)           {}
func (m *dummyCollector) SetCutOff()                        {}
func (m *dummyCollector) AddFullPlayout()                   {}
func (m *dummyCollector) AddPrediction()                    {}
func (m *dummyCollector) AddEpisode()                       {}
func (m *dummyCollector) Complete() SearchMetric            { return SearchMetric{} }
