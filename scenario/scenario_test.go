package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrt-planner/planner"
)

const sampleYAML = `
width: 100
height: 80
start: {x: 10, y: 10}
goal: {x: 90, y: 70}
obstacle_size: 5
obstacles:
  - [20, 20, 30, 30]
  - [50, 50]
variant: greedy
params:
  goal_bias: 0.5
  timeout: 2s
smooth: true
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 100.0, s.Width)
	assert.Equal(t, 80.0, s.Height)
	assert.Equal(t, planner.Point{X: 90, Y: 70}, s.Goal)
	assert.Equal(t, planner.Greedy, s.Variant)
	assert.True(t, s.Smooth)

	// Unset parameters keep their defaults
	assert.Equal(t, 0.5, s.Params.GoalBias)
	assert.Equal(t, 2*time.Second, s.Params.Timeout)
	assert.Equal(t, planner.DefaultMaxDistance, s.Params.MaxDistance)
	assert.Equal(t, planner.DefaultMaxIterations, s.Params.MaxIterations)

	obstacles, err := s.ObstacleList()
	require.NoError(t, err)
	assert.Equal(t, []planner.Obstacle{
		{X1: 20, Y1: 20, X2: 30, Y2: 30},
		{X1: 50, Y1: 50, X2: 55, Y2: 55},
	}, obstacles)
}

func TestParseWithDefaultsKeepsFileValues(t *testing.T) {
	base := planner.DefaultParams()
	base.MaxIterations = 123
	base.Timeout = time.Second

	s, err := ParseWithDefaults([]byte("params:\n  max_iterations: 50\n"), base)
	require.NoError(t, err)
	assert.Equal(t, 50, s.Params.MaxIterations)
	assert.Equal(t, time.Second, s.Params.Timeout)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("width: 10\nheigth: 10\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("variant: star\n"))
	assert.Error(t, err)
}

func TestObstacleListRejectsMalformedEntries(t *testing.T) {
	s := Default()
	s.Obstacles = append(s.Obstacles, []float64{1, 2, 3})

	_, err := s.ObstacleList()
	assert.ErrorIs(t, err, planner.ErrInvalidConfiguration)
}

func TestDefaultScenarioRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	s, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Obstacles, s.Obstacles)
	assert.Equal(t, Default().Params, s.Params)

	ws, err := s.Workspace()
	require.NoError(t, err)
	assert.Len(t, ws.Obstacles(), 4)
}

func TestLoadResolvesGeoJSONRelativeToScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zones.geojson"), []byte(sampleGeoJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenario.yaml"),
		[]byte("width: 100\nheight: 100\ngeojson: zones.geojson\n"), 0644))

	s, err := Load(filepath.Join(dir, "scenario.yaml"))
	require.NoError(t, err)

	ws, err := s.Workspace()
	require.NoError(t, err)
	assert.Equal(t, []planner.Obstacle{
		{X1: 40, Y1: 40, X2: 60, Y2: 50},
		{X1: 70, Y1: 10, X2: 80, Y2: 25},
	}, ws.Obstacles())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
