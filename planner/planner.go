// Package planner finds collision-free paths through a 2D workspace of
// axis-aligned rectangular obstacles with rapidly-exploring random trees.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

// default values for planning parameters.
const (
	// Step length of a single tree extension.
	DefaultMaxDistance = 10.0

	// A node closer than this to the goal finishes the search.
	DefaultGoalTolerance = 5.0

	// Clearance kept around obstacles by the spacing variant.
	DefaultSpacingMargin = 5.0

	// Probability of sampling the goal in the greedy variant.
	DefaultGoalBias = 0.2

	// Number of planner iterations before giving up.
	DefaultMaxIterations = 20000
)

// Variant selects the sampling strategy of the planner
type Variant int

const (
	// Basic samples uniformly
	Basic Variant = iota
	// Spacing rejects samples near obstacles
	Spacing
	// Greedy samples the goal with probability GoalBias
	Greedy
)

var variantNames = map[Variant]string{
	Basic:   "basic",
	Spacing: "spacing",
	Greedy:  "greedy",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant maps a variant name to its value
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for v, n := range variantNames {
		if n == name {
			return v, nil
		}
	}
	return 0, invalidf("unknown variant %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Params tunes a planning call
type Params struct {
	MaxDistance       float64       `json:"maxDistance" yaml:"max_distance"`
	GoalTolerance     float64       `json:"goalTolerance" yaml:"goal_tolerance"`
	SpacingMargin     float64       `json:"spacingMargin" yaml:"spacing_margin"`
	GoalBias          float64       `json:"goalBias" yaml:"goal_bias"`
	MaxIterations     int           `json:"maxIterations" yaml:"max_iterations"`
	Timeout           time.Duration `json:"-" yaml:"timeout"` // Zero means no deadline; HTTP clients send timeoutMs
	MaxSampleAttempts int           `json:"maxSampleAttempts" yaml:"max_sample_attempts"`
	Seed              int64         `json:"seed" yaml:"seed"` // Zero seeds from the clock
}

// DefaultParams returns the reference parameter set
func DefaultParams() Params {
	return Params{
		MaxDistance:       DefaultMaxDistance,
		GoalTolerance:     DefaultGoalTolerance,
		SpacingMargin:     DefaultSpacingMargin,
		GoalBias:          DefaultGoalBias,
		MaxIterations:     DefaultMaxIterations,
		MaxSampleAttempts: DefaultMaxSampleAttempts,
	}
}

// Validate checks the parameters independently of any workspace
func (p Params) Validate() error {
	switch {
	case !(p.MaxDistance > 0) || math.IsInf(p.MaxDistance, 0):
		return invalidf("max distance must be positive, got %g", p.MaxDistance)
	case !(p.GoalTolerance > 0) || math.IsInf(p.GoalTolerance, 0):
		return invalidf("goal tolerance must be positive, got %g", p.GoalTolerance)
	case p.SpacingMargin < 0 || math.IsNaN(p.SpacingMargin):
		return invalidf("spacing margin must not be negative, got %g", p.SpacingMargin)
	case !(p.GoalBias >= 0 && p.GoalBias <= 1):
		return invalidf("goal bias must be within [0,1], got %g", p.GoalBias)
	case p.MaxIterations <= 0:
		return invalidf("max iterations must be positive, got %d", p.MaxIterations)
	case p.Timeout < 0:
		return invalidf("timeout must not be negative, got %s", p.Timeout)
	case p.MaxSampleAttempts < 0 || p.MaxSampleAttempts > MaxSampleAttemptsLimit:
		return invalidf("max sample attempts must be within [0,%d], got %d", MaxSampleAttemptsLimit, p.MaxSampleAttempts)
	}
	return nil
}

// Status is the terminal state of a planning call
type Status int

const (
	// NoPathFound means the budget ran out before the goal was reached
	NoPathFound Status = iota
	// GoalReached means Result.Path connects start to goal
	GoalReached
)

func (s Status) String() string {
	if s == GoalReached {
		return "goal_reached"
	}
	return "no_path_found"
}

// Reasons attached to a NoPathFound result
const (
	ReasonIterations       = "iterations_exhausted"
	ReasonTimeout          = "timeout"
	ReasonCanceled         = "canceled"
	ReasonSamplerExhausted = "sampler_exhausted"
)

// Result is the outcome of Plan
type Result struct {
	Status     Status
	Path       Path // Nil unless Status is GoalReached
	Reason     string
	Iterations int
	Nodes      int
	Elapsed    time.Duration
}

// Found reports whether a path was produced
func (r *Result) Found() bool {
	return r.Status == GoalReached
}

type planConfig struct {
	logger   *zap.SugaredLogger
	rng      *rand.Rand
	sampler  Sampler
	observer func(*Tree)
}

// Option customizes a planning call
type Option func(*planConfig)

// WithLogger sets the logger used for planning diagnostics
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *planConfig) { c.logger = logger }
}

// WithRand supplies the random source; it overrides Params.Seed
func WithRand(rng *rand.Rand) Option {
	return func(c *planConfig) { c.rng = rng }
}

// WithSampler replaces the variant's sampler
func WithSampler(s Sampler) Option {
	return func(c *planConfig) { c.sampler = s }
}

// WithTreeObserver receives the final search tree before Plan returns
func WithTreeObserver(fn func(*Tree)) Option {
	return func(c *planConfig) { c.observer = fn }
}

// NewSampler builds the sampler for a variant
func NewSampler(variant Variant, ws *Workspace, goal Point, params Params) (Sampler, error) {
	switch variant {
	case Basic:
		return &UniformSampler{Workspace: ws}, nil
	case Spacing:
		return &MarginSampler{Workspace: ws, Margin: params.SpacingMargin, MaxAttempts: params.MaxSampleAttempts}, nil
	case Greedy:
		return &GoalBiasedSampler{Workspace: ws, Goal: goal, Bias: params.GoalBias}, nil
	}
	return nil, invalidf("unknown variant %d", int(variant))
}

// Plan grows a rapidly-exploring random tree from start until a node lands
// within GoalTolerance of goal or the iteration, time or context budget runs
// out. An exhausted budget is reported as a NoPathFound result, not an error;
// errors are returned only for invalid input.
func Plan(ctx context.Context, start, goal Point, ws *Workspace, variant Variant, params Params, opts ...Option) (*Result, error) {
	if ws == nil {
		return nil, invalidf("workspace is required")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !ws.PointIsFree(start) {
		return nil, invalidf("start (%g, %g) is outside the workspace or inside an obstacle", start.X, start.Y)
	}
	if !ws.PointIsFree(goal) {
		return nil, invalidf("goal (%g, %g) is outside the workspace or inside an obstacle", goal.X, goal.Y)
	}

	cfg := planConfig{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		seed := params.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		cfg.rng = rand.New(rand.NewSource(seed))
	}
	if cfg.sampler == nil {
		sampler, err := NewSampler(variant, ws, goal, params)
		if err != nil {
			return nil, err
		}
		cfg.sampler = sampler
	}

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	tree := NewTree(start)
	result := grow(ctx, tree, goal, ws, params, cfg)
	result.Nodes = tree.Len()
	result.Elapsed = time.Since(startTime)

	if cfg.observer != nil {
		cfg.observer(tree)
	}

	if result.Found() {
		cfg.logger.Debugw("path found",
			"variant", variant, "iterations", result.Iterations, "nodes", result.Nodes,
			"waypoints", len(result.Path), "length", result.Path.Length(), "elapsed", result.Elapsed)
	} else {
		cfg.logger.Debugw("no path found",
			"variant", variant, "reason", result.Reason, "iterations", result.Iterations,
			"nodes", result.Nodes, "elapsed", result.Elapsed)
	}

	return result, nil
}

// grow runs the sample/nearest/steer/insert loop on tree
func grow(ctx context.Context, tree *Tree, goal Point, ws *Workspace, params Params, cfg planConfig) *Result {
	// The root itself may already see the goal
	if reached, ok := attachGoal(tree, 0, goal, ws, params.GoalTolerance); ok {
		return &Result{Status: GoalReached, Path: tree.PathTo(reached)}
	}

	filter, _ := cfg.sampler.(CandidateFilter)

	for iter := 1; iter <= params.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return &Result{Status: NoPathFound, Reason: stopReason(err), Iterations: iter - 1}
		}

		target, err := cfg.sampler.Sample(ctx, cfg.rng)
		if err != nil {
			cfg.logger.Debugw("sampler gave up", "error", err, "iteration", iter)
			return &Result{Status: NoPathFound, Reason: stopReason(err), Iterations: iter}
		}

		nearest := tree.Nearest(target)
		from := tree.Node(nearest).Position
		candidate := Steer(from, target, params.MaxDistance)

		if candidate == from || !ws.ContainsPoint(candidate) || !ws.SegmentIsFree(from, candidate) {
			continue
		}
		if filter != nil && !filter.Admit(candidate) {
			continue
		}

		id := tree.Insert(candidate, nearest)
		if reached, ok := attachGoal(tree, id, goal, ws, params.GoalTolerance); ok {
			return &Result{Status: GoalReached, Path: tree.PathTo(reached), Iterations: iter}
		}
	}

	return &Result{Status: NoPathFound, Reason: ReasonIterations, Iterations: params.MaxIterations}
}

// stopReason maps the error that ended the search to a Result reason
func stopReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	}
	return ReasonSamplerExhausted
}

// attachGoal adds the goal as a child of node id when it is within
// tolerance and visible from it
func attachGoal(tree *Tree, id int, goal Point, ws *Workspace, tolerance float64) (int, bool) {
	pos := tree.Node(id).Position
	if pos.Distance(goal) >= tolerance || !ws.SegmentIsFree(pos, goal) {
		return 0, false
	}
	if pos == goal {
		return id, true
	}
	return tree.Insert(goal, id), true
}
