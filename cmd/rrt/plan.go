package main

import (
	"fmt"
	"io"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"rrt-planner/planner"
	"rrt-planner/scenario"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a single path through the scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveScenario(cmd)
		if err != nil {
			return err
		}
		if err := applyFlagParams(cmd, s); err != nil {
			return err
		}
		if cmd.Flags().Changed("smooth") {
			s.Smooth, _ = cmd.Flags().GetBool("smooth")
		}

		ws, err := s.Workspace()
		if err != nil {
			return err
		}

		var tree *planner.Tree
		res, err := planner.Plan(cmd.Context(), s.Start, s.Goal, ws, s.Variant, s.Params,
			planner.WithLogger(logger),
			planner.WithTreeObserver(func(t *planner.Tree) { tree = t }))
		if err != nil {
			return err
		}

		var smoothed planner.Path
		if res.Found() && s.Smooth {
			smoothed = planner.Smooth(res.Path, ws)
		}
		if eps, _ := cmd.Flags().GetFloat64("simplify"); res.Found() && eps > 0 {
			if smoothed == nil {
				smoothed = res.Path
			}
			smoothed = planner.Simplify(smoothed, ws, eps)
		}

		printResult(cmd.OutOrStdout(), s.Variant, res, smoothed)

		out, _ := cmd.Flags().GetString("geojson")
		if out == "" {
			return nil
		}
		withTree, _ := cmd.Flags().GetBool("tree")
		return writeGeoJSON(out, ws, res, smoothed, tree, withTree)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addParamFlags(planCmd)
	planCmd.Flags().Bool("smooth", true, "Shortcut the path after planning")
	planCmd.Flags().Float64("simplify", 0, "Douglas-Peucker tolerance applied after smoothing (0 disables)")
	planCmd.Flags().StringP("geojson", "o", "", "Write obstacles, path and tree to this GeoJSON file")
	planCmd.Flags().Bool("tree", false, "Include the search tree in the GeoJSON output")
}

func printResult(w io.Writer, variant planner.Variant, res *planner.Result, smoothed planner.Path) {
	fmt.Fprintf(w, "variant:    %s\n", variant)
	fmt.Fprintf(w, "status:     %s\n", res.Status)
	if !res.Found() {
		fmt.Fprintf(w, "reason:     %s\n", res.Reason)
	}
	fmt.Fprintf(w, "iterations: %d\n", res.Iterations)
	fmt.Fprintf(w, "nodes:      %d\n", res.Nodes)
	fmt.Fprintf(w, "elapsed:    %s\n", res.Elapsed)
	if !res.Found() {
		return
	}

	fmt.Fprintf(w, "waypoints:  %d\n", len(res.Path))
	fmt.Fprintf(w, "length:     %.3f\n", res.Path.Length())
	if smoothed != nil {
		fmt.Fprintf(w, "smoothed:   %d waypoints, length %.3f\n", len(smoothed), smoothed.Length())
	}

	path := res.Path
	if smoothed != nil {
		path = smoothed
	}
	for i, p := range path {
		fmt.Fprintf(w, "  %3d: (%.3f, %.3f)\n", i, p.X, p.Y)
	}
}

func writeGeoJSON(filename string, ws *planner.Workspace, res *planner.Result, smoothed planner.Path, tree *planner.Tree, withTree bool) error {
	fc := geojson.NewFeatureCollection()
	for _, o := range ws.Obstacles() {
		fc.Append(scenario.ObstacleFeature(o))
	}
	if res.Found() {
		fc.Append(scenario.PathFeature(res.Path, "path"))
	}
	if smoothed != nil {
		fc.Append(scenario.PathFeature(smoothed, "smoothed"))
	}
	if withTree && tree != nil {
		fc.Append(scenario.TreeFeature(tree))
	}

	if err := scenario.SaveFeatureCollection(fc, filename); err != nil {
		return err
	}
	logger.Infow("geojson written", "file", filename, "features", len(fc.Features))
	return nil
}
