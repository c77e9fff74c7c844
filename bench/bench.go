// Package bench runs repeated planning trials and summarizes them.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rrt-planner/planner"
)

// Config describes one benchmark run. All trials share the workspace; each
// gets its own tree and random source.
type Config struct {
	Workspace *planner.Workspace
	Start     planner.Point
	Goal      planner.Point
	Variant   planner.Variant
	Params    planner.Params
	Trials    int
	Workers   int   // Concurrent trials; <=1 runs them in order
	Seed      int64 // Trial i uses Seed+i; zero seeds from the clock
	Smooth    bool
	Logger    *zap.SugaredLogger
}

// Trial is the outcome of a single planning call
type Trial struct {
	Seed              int64
	Found             bool
	Reason            string
	Waypoints         int
	Length            float64
	SmoothedWaypoints int
	SmoothedLength    float64
	Nodes             int
	Iterations        int
	Elapsed           time.Duration
}

// Summary aggregates the trials of one run
type Summary struct {
	Variant               planner.Variant
	Trials                int
	Successes             int
	SuccessRate           float64
	MeanWaypoints         float64
	MeanLength            float64
	MeanSmoothedWaypoints float64
	MeanSmoothedLength    float64
	MeanNodes             float64
	MeanTime              time.Duration
	TotalTime             time.Duration
}

// Run executes the trials and returns them with their summary
func Run(ctx context.Context, cfg Config) (*Summary, []Trial, error) {
	if cfg.Trials <= 0 {
		return nil, nil, fmt.Errorf("%w: trials must be positive, got %d", planner.ErrInvalidConfiguration, cfg.Trials)
	}
	if cfg.Workspace == nil {
		return nil, nil, fmt.Errorf("%w: workspace is required", planner.ErrInvalidConfiguration)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	trials := make([]Trial, cfg.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	start := time.Now()
	for i := range trials {
		i := i
		g.Go(func() error {
			trial, err := runTrial(gctx, cfg, baseSeed+int64(i))
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			trials[i] = trial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	summary := Summarize(cfg.Variant, trials)
	summary.TotalTime = time.Since(start)

	logger.Infow("benchmark finished",
		"variant", cfg.Variant, "trials", summary.Trials, "success_rate", summary.SuccessRate,
		"mean_length", summary.MeanLength, "mean_time", summary.MeanTime, "total", summary.TotalTime)

	return summary, trials, nil
}

func runTrial(ctx context.Context, cfg Config, seed int64) (Trial, error) {
	res, err := planner.Plan(ctx, cfg.Start, cfg.Goal, cfg.Workspace, cfg.Variant, cfg.Params,
		planner.WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		return Trial{}, err
	}

	trial := Trial{
		Seed:       seed,
		Found:      res.Found(),
		Reason:     res.Reason,
		Nodes:      res.Nodes,
		Iterations: res.Iterations,
		Elapsed:    res.Elapsed,
	}
	if !res.Found() {
		return trial, nil
	}

	trial.Waypoints = len(res.Path)
	trial.Length = res.Path.Length()
	if cfg.Smooth {
		smoothed := planner.Smooth(res.Path, cfg.Workspace)
		trial.SmoothedWaypoints = len(smoothed)
		trial.SmoothedLength = smoothed.Length()
	}
	return trial, nil
}

// Summarize averages path statistics over successful trials and time and
// node counts over all trials
func Summarize(variant planner.Variant, trials []Trial) *Summary {
	s := &Summary{Variant: variant, Trials: len(trials)}
	if len(trials) == 0 {
		return s
	}

	var elapsed time.Duration
	var nodes int
	for _, tr := range trials {
		elapsed += tr.Elapsed
		nodes += tr.Nodes
		if !tr.Found {
			continue
		}
		s.Successes++
		s.MeanWaypoints += float64(tr.Waypoints)
		s.MeanLength += tr.Length
		s.MeanSmoothedWaypoints += float64(tr.SmoothedWaypoints)
		s.MeanSmoothedLength += tr.SmoothedLength
	}

	s.SuccessRate = float64(s.Successes) / float64(len(trials))
	s.MeanTime = elapsed / time.Duration(len(trials))
	s.MeanNodes = float64(nodes) / float64(len(trials))
	if s.Successes > 0 {
		n := float64(s.Successes)
		s.MeanWaypoints /= n
		s.MeanLength /= n
		s.MeanSmoothedWaypoints /= n
		s.MeanSmoothedLength /= n
	}
	return s
}

var csvHeader = []string{
	"variant", "trials", "success_rate", "mean_waypoints", "mean_length",
	"mean_smoothed_waypoints", "mean_smoothed_length", "mean_nodes", "mean_time_ms", "total_time_ms",
}

// WriteCSV writes one row per summary under a header
func WriteCSV(w io.Writer, summaries ...*Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, s := range summaries {
		row := []string{
			s.Variant.String(),
			strconv.Itoa(s.Trials),
			formatFloat(s.SuccessRate),
			formatFloat(s.MeanWaypoints),
			formatFloat(s.MeanLength),
			formatFloat(s.MeanSmoothedWaypoints),
			formatFloat(s.MeanSmoothedLength),
			formatFloat(s.MeanNodes),
			formatFloat(float64(s.MeanTime) / float64(time.Millisecond)),
			formatFloat(float64(s.TotalTime) / float64(time.Millisecond)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
