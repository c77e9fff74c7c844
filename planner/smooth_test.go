package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isSubsequence checks that every point of sub appears in path in order
func isSubsequence(sub, path Path) bool {
	j := 0
	for _, p := range path {
		if j < len(sub) && sub[j] == p {
			j++
		}
	}
	return j == len(sub)
}

func TestSmoothPlannedPaths(t *testing.T) {
	ws := referenceWorkspace(t)

	for seed := int64(1); seed <= 20; seed++ {
		params := DefaultParams()
		params.Seed = seed
		res, err := Plan(context.Background(), referenceStart, referenceGoal, ws, Basic, params)
		require.NoError(t, err)
		require.True(t, res.Found())

		smoothed := Smooth(res.Path, ws)
		require.GreaterOrEqual(t, len(smoothed), 2)
		assert.Equal(t, res.Path[0], smoothed[0])
		assert.Equal(t, res.Path[len(res.Path)-1], smoothed[len(smoothed)-1])
		assert.True(t, isSubsequence(smoothed, res.Path))
		assert.LessOrEqual(t, smoothed.Length(), res.Path.Length()+1e-9)
		for i := 0; i+1 < len(smoothed); i++ {
			assert.True(t, ws.SegmentIsFree(smoothed[i], smoothed[i+1]))
		}

		assert.Equal(t, smoothed, Smooth(smoothed, ws), "seed %d not idempotent", seed)
	}
}

func TestSmoothTakesLongestShortcut(t *testing.T) {
	ws := referenceWorkspace(t)
	path := Path{{10, 10}, {10, 40}, {40, 40}, {40, 45}, {45, 45}}

	// (10,10) only sees (10,40); from there the goal is in plain view
	assert.Equal(t, Path{{10, 10}, {10, 40}, {45, 45}}, Smooth(path, ws))
}

func TestSmoothStraightLineCollapses(t *testing.T) {
	ws, err := NewWorkspace(100, 100, nil)
	require.NoError(t, err)
	path := Path{{0, 0}, {10, 5}, {20, 30}, {50, 50}}

	assert.Equal(t, Path{{0, 0}, {50, 50}}, Smooth(path, ws))
}

func TestSmoothDegenerateInputs(t *testing.T) {
	ws := referenceWorkspace(t)

	assert.Empty(t, Smooth(nil, ws))
	assert.Equal(t, Path{{1, 1}}, Smooth(Path{{1, 1}}, ws))
	assert.Equal(t, Path{{1, 1}, {1, 1}}, Smooth(Path{{1, 1}, {1, 1}}, ws))
}

func TestSmoothKeepsBlockedHop(t *testing.T) {
	ws := referenceWorkspace(t)
	path := Path{{10, 10}, {40, 40}, {45, 45}}

	// The first hop crosses a box; the smoother advances instead of looping
	assert.Equal(t, Path{{10, 10}, {40, 40}, {45, 45}}, Smooth(path, ws))
}

func TestPathLength(t *testing.T) {
	assert.Zero(t, Path{}.Length())
	assert.Zero(t, Path{{3, 3}}.Length())
	assert.InDelta(t, 10.0, Path{{0, 0}, {3, 4}, {6, 8}}.Length(), 1e-12)

	p := Path{{0, 0}, {3, 4}}
	assert.Equal(t, p, PathFromLineString(p.LineString()))
}
