package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"rrt-planner/planner"
)

// LoadObstaclesGeoJSON reads a GeoJSON file and turns every feature's
// bounding box into an obstacle
func LoadObstaclesGeoJSON(filename string) ([]planner.Obstacle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	obstacles, err := ParseObstaclesGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return obstacles, nil
}

// ParseObstaclesGeoJSON accepts a FeatureCollection or a single Feature
func ParseObstaclesGeoJSON(data []byte) ([]planner.Obstacle, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geojson: %w", err)
	}

	var features []*geojson.Feature
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal feature collection: %w", err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal feature: %w", err)
		}
		features = []*geojson.Feature{f}
	default:
		return nil, fmt.Errorf("unsupported geojson type %q", probe.Type)
	}

	obstacles := make([]planner.Obstacle, 0, len(features))
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		obstacles = append(obstacles, boundToObstacle(f.Geometry.Bound()))
	}

	return obstacles, nil
}

func boundToObstacle(b orb.Bound) planner.Obstacle {
	return planner.NewObstacle(
		planner.Point{X: b.Min.X(), Y: b.Min.Y()},
		planner.Point{X: b.Max.X(), Y: b.Max.Y()},
	)
}

// ObstacleFeature converts an obstacle to a GeoJSON polygon feature
func ObstacleFeature(o planner.Obstacle) *geojson.Feature {
	bound := orb.Bound{Min: orb.Point{o.X1, o.Y1}, Max: orb.Point{o.X2, o.Y2}}
	f := geojson.NewFeature(bound.ToPolygon())
	f.Properties["kind"] = "obstacle"
	return f
}

// PathFeature converts a path to a GeoJSON LineString feature
func PathFeature(path planner.Path, kind string) *geojson.Feature {
	f := geojson.NewFeature(path.LineString())
	f.Properties["kind"] = kind
	f.Properties["length"] = path.Length()
	f.Properties["waypoints"] = len(path)
	return f
}

// TreeFeature returns the search tree edges as one MultiLineString feature
func TreeFeature(tree *planner.Tree) *geojson.Feature {
	edges := tree.Edges()
	lines := make(orb.MultiLineString, 0, len(edges))
	for _, e := range edges {
		lines = append(lines, orb.LineString{{e[0].X, e[0].Y}, {e[1].X, e[1].Y}})
	}

	f := geojson.NewFeature(lines)
	f.Properties["kind"] = "tree"
	f.Properties["nodes"] = tree.Len()
	return f
}

// SaveFeatureCollection serializes features to a GeoJSON file
func SaveFeatureCollection(fc *geojson.FeatureCollection, filename string) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
