package planner

import (
	"context"
	"fmt"
	"math/rand"
)

const (
	// DefaultMaxSampleAttempts bounds rejection sampling per draw
	DefaultMaxSampleAttempts = 1000

	// MaxSampleAttemptsLimit is the largest per-draw budget Params accepts
	MaxSampleAttemptsLimit = 1000000

	// Rejected draws between context checks
	sampleCheckInterval = 256
)

// Sampler produces candidate target points for tree growth
type Sampler interface {
	Sample(ctx context.Context, rng *rand.Rand) (Point, error)
}

// CandidateFilter is implemented by samplers that also restrict where new
// tree nodes may land after steering
type CandidateFilter interface {
	Admit(p Point) bool
}

// UniformSampler draws uniformly over the workspace bounds
type UniformSampler struct {
	Workspace *Workspace
}

// Sample implements Sampler
func (s *UniformSampler) Sample(_ context.Context, rng *rand.Rand) (Point, error) {
	return uniformPoint(s.Workspace, rng), nil
}

// MarginSampler draws uniformly but rejects points within Margin of any
// obstacle's bounding box
type MarginSampler struct {
	Workspace   *Workspace
	Margin      float64
	MaxAttempts int // Rejections allowed per draw; <=0 uses DefaultMaxSampleAttempts
}

// Sample implements Sampler. It stops early with the context's error when
// ctx is done.
func (s *MarginSampler) Sample(ctx context.Context, rng *rand.Rand) (Point, error) {
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxSampleAttempts
	}

	for i := 0; i < attempts; i++ {
		if i%sampleCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Point{}, err
			}
		}
		p := uniformPoint(s.Workspace, rng)
		if !s.Workspace.InMargin(p, s.Margin) {
			return p, nil
		}
	}

	return Point{}, fmt.Errorf("%w: no point outside margin %g after %d draws", ErrSamplerExhausted, s.Margin, attempts)
}

// Admit implements CandidateFilter
func (s *MarginSampler) Admit(p Point) bool {
	return !s.Workspace.InMargin(p, s.Margin)
}

// GoalBiasedSampler returns the goal with probability Bias, otherwise a
// uniform point
type GoalBiasedSampler struct {
	Workspace *Workspace
	Goal      Point
	Bias      float64
}

// Sample implements Sampler
func (s *GoalBiasedSampler) Sample(_ context.Context, rng *rand.Rand) (Point, error) {
	if rng.Float64() < s.Bias {
		return s.Goal, nil
	}
	return uniformPoint(s.Workspace, rng), nil
}

func uniformPoint(w *Workspace, rng *rand.Rand) Point {
	return Point{
		X: rng.Float64() * w.width,
		Y: rng.Float64() * w.height,
	}
}
