package scenario

import (
	"fmt"
	"math"

	"rrt-planner/planner"
)

// PassageConfig describes a vertical corridor through a field of width
// Width and height Height: a wall of WallThickness on each side of a gap of
// PassageWidth, with a block of ObstacleWidth behind each wall. Every
// obstacle spans the full height.
type PassageConfig struct {
	Width         float64
	Height        float64
	PassageWidth  float64
	WallThickness float64
	ObstacleWidth float64
}

// DefaultPassageConfig is a 50x100 field with a 10 wide corridor
func DefaultPassageConfig() PassageConfig {
	return PassageConfig{
		Width:         50,
		Height:        100,
		PassageWidth:  10,
		WallThickness: 1,
		ObstacleWidth: 24,
	}
}

// NarrowPassage builds a scenario whose only free route is the corridor;
// start and goal sit at its bottom and top ends
func NarrowPassage(cfg PassageConfig) (*Scenario, error) {
	switch {
	case !(cfg.Width > 0) || !(cfg.Height > 0) || math.IsInf(cfg.Width, 0) || math.IsInf(cfg.Height, 0):
		return nil, fmt.Errorf("%w: passage field must be positive and finite, got %gx%g",
			planner.ErrInvalidConfiguration, cfg.Width, cfg.Height)
	case !(cfg.PassageWidth > 0) || cfg.PassageWidth >= cfg.Width:
		return nil, fmt.Errorf("%w: passage width must be within (0,%g), got %g",
			planner.ErrInvalidConfiguration, cfg.Width, cfg.PassageWidth)
	case cfg.WallThickness < 0 || cfg.ObstacleWidth < 0 || !(2*cfg.WallThickness < cfg.Height):
		return nil, fmt.Errorf("%w: wall thickness %g and obstacle width %g do not fit a %g high field",
			planner.ErrInvalidConfiguration, cfg.WallThickness, cfg.ObstacleWidth, cfg.Height)
	}

	mid := cfg.Width / 2
	gapLeft := mid - cfg.PassageWidth/2
	gapRight := mid + cfg.PassageWidth/2

	var obstacles [][]float64
	if cfg.WallThickness > 0 {
		obstacles = append(obstacles,
			[]float64{gapLeft - cfg.WallThickness, 0, gapLeft, cfg.Height},
			[]float64{gapRight, 0, gapRight + cfg.WallThickness, cfg.Height},
		)
	}
	if cfg.ObstacleWidth > 0 {
		obstacles = append(obstacles,
			[]float64{gapLeft - cfg.WallThickness - cfg.ObstacleWidth, 0, gapLeft - cfg.WallThickness, cfg.Height},
			[]float64{gapRight + cfg.WallThickness, 0, gapRight + cfg.WallThickness + cfg.ObstacleWidth, cfg.Height},
		)
	}

	params := planner.DefaultParams()
	params.MaxDistance = 5
	params.GoalTolerance = 5
	// the margin band must leave the corridor's centre line open
	params.SpacingMargin = math.Min(planner.DefaultSpacingMargin, cfg.PassageWidth/4)

	return &Scenario{
		Width:        cfg.Width,
		Height:       cfg.Height,
		Start:        planner.Point{X: mid, Y: cfg.WallThickness},
		Goal:         planner.Point{X: mid, Y: cfg.Height - cfg.WallThickness},
		ObstacleSize: DefaultObstacleSize,
		Obstacles:    obstacles,
		Variant:      planner.Basic,
		Params:       params,
		Smooth:       true,
	}, nil
}
