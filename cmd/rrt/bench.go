package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"rrt-planner/bench"
	"rrt-planner/planner"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run repeated trials of each variant and compare them",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveScenario(cmd)
		if err != nil {
			return err
		}
		if err := applyFlagParams(cmd, s); err != nil {
			return err
		}
		ws, err := s.Workspace()
		if err != nil {
			return err
		}

		names, _ := cmd.Flags().GetString("variants")
		trials, _ := cmd.Flags().GetInt("trials")
		workers, _ := cmd.Flags().GetInt("workers")
		seed, _ := cmd.Flags().GetInt64("seed")

		var summaries []*bench.Summary
		for _, name := range strings.Split(names, ",") {
			variant, err := planner.ParseVariant(name)
			if err != nil {
				return err
			}

			summary, _, err := bench.Run(cmd.Context(), bench.Config{
				Workspace: ws,
				Start:     s.Start,
				Goal:      s.Goal,
				Variant:   variant,
				Params:    s.Params,
				Trials:    trials,
				Workers:   workers,
				Seed:      seed,
				Smooth:    true,
				Logger:    logger,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", variant, err)
			}
			summaries = append(summaries, summary)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-8s %7s %8s %10s %10s %9s %9s %10s\n",
			"variant", "success", "nodes", "length", "smoothed", "points", "s.points", "mean time")
		for _, sm := range summaries {
			fmt.Fprintf(out, "%-8s %6.1f%% %8.1f %10.3f %10.3f %9.1f %9.1f %10s\n",
				sm.Variant, 100*sm.SuccessRate, sm.MeanNodes, sm.MeanLength, sm.MeanSmoothedLength,
				sm.MeanWaypoints, sm.MeanSmoothedWaypoints, sm.MeanTime)
		}

		csvPath, _ := cmd.Flags().GetString("csv")
		if csvPath == "" {
			return nil
		}
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer f.Close()
		return bench.WriteCSV(f, summaries...)
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	addParamFlags(benchCmd)
	benchCmd.Flags().String("variants", "basic,spacing,greedy", "Comma-separated variants to compare")
	benchCmd.Flags().IntP("trials", "n", 100, "Trials per variant")
	benchCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "Concurrent trials")
	benchCmd.Flags().String("csv", "", "Also write the summaries to this CSV file")
}
