package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rrt-planner/planner"
	"rrt-planner/scenario"
)

var logger = zap.NewNop().Sugar()

var rootCmd = &cobra.Command{
	Use:   "rrt",
	Short: "RRT motion planner for rectangular obstacle fields",
	Long: `rrt grows rapidly-exploring random trees through a 2D workspace of
axis-aligned obstacles. Scenarios are read from YAML files; without one the
built-in 100x100 four-obstacle field is used.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		l, err := newLogger(debug)
		if err != nil {
			return err
		}
		logger = l.Sugar()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("scenario", "", "Scenario YAML file (default $RRT_SCENARIO or the built-in field)")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadScenario reads the scenario named by --scenario or RRT_SCENARIO.
// RRT_MAX_ITERATIONS and RRT_TIMEOUT act as defaults: values in the
// scenario file win over them, flags win over both.
func loadScenario(cmd *cobra.Command) (*scenario.Scenario, error) {
	path, _ := cmd.Flags().GetString("scenario")
	if path == "" {
		path = getEnv("RRT_SCENARIO", "")
	}

	defaults := planner.DefaultParams()
	if err := applyEnvParams(&defaults); err != nil {
		return nil, err
	}

	if path == "" {
		s := scenario.Default()
		s.Params = defaults
		return s, nil
	}

	s, err := scenario.LoadWithDefaults(path, defaults)
	if err != nil {
		return nil, err
	}
	logger.Debugw("scenario loaded", "file", path, "obstacles", len(s.Obstacles))
	return s, nil
}

// resolveScenario picks the narrow-passage layout when --passage is set
// and the scenario file or built-in field otherwise
func resolveScenario(cmd *cobra.Command) (*scenario.Scenario, error) {
	width, _ := cmd.Flags().GetFloat64("passage")
	if width <= 0 {
		return loadScenario(cmd)
	}

	cfg := scenario.DefaultPassageConfig()
	cfg.PassageWidth = width
	s, err := scenario.NarrowPassage(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugw("narrow passage scenario", "passage_width", width, "obstacles", len(s.Obstacles))
	return s, nil
}

// applyFlagParams overrides parameters with the flags the user set
func applyFlagParams(cmd *cobra.Command, s *scenario.Scenario) error {
	flags := cmd.Flags()
	if flags.Changed("variant") {
		name, _ := flags.GetString("variant")
		v, err := planner.ParseVariant(name)
		if err != nil {
			return err
		}
		s.Variant = v
	}
	if flags.Changed("seed") {
		s.Params.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("max-iterations") {
		s.Params.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("timeout") {
		s.Params.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("step") {
		s.Params.MaxDistance, _ = flags.GetFloat64("step")
	}
	if flags.Changed("goal-bias") {
		s.Params.GoalBias, _ = flags.GetFloat64("goal-bias")
	}
	if flags.Changed("margin") {
		s.Params.SpacingMargin, _ = flags.GetFloat64("margin")
	}
	return nil
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("variant", "v", "basic", "Planner variant: basic, spacing or greedy")
	cmd.Flags().Int64("seed", 0, "Random seed (0 seeds from the clock)")
	cmd.Flags().Int("max-iterations", planner.DefaultMaxIterations, "Iteration budget")
	cmd.Flags().Duration("timeout", 0, "Wall-clock budget per plan (0 disables)")
	cmd.Flags().Float64("step", planner.DefaultMaxDistance, "Steering step length")
	cmd.Flags().Float64("goal-bias", planner.DefaultGoalBias, "Goal sampling probability for the greedy variant")
	cmd.Flags().Float64("margin", planner.DefaultSpacingMargin, "Obstacle clearance for the spacing variant")
	cmd.Flags().Float64("passage", 0, "Use the narrow-passage field with this corridor width instead of a scenario")
}
