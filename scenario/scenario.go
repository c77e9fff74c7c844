// Package scenario loads planning problems from YAML and GeoJSON files and
// exports planning results as GeoJSON.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rrt-planner/planner"
)

// Default obstacle edge length for entries given as a bottom-left corner
const DefaultObstacleSize = 10.0

// Scenario is one planning problem: the workspace, the endpoints and how
// to search between them
type Scenario struct {
	Width        float64         `yaml:"width"`
	Height       float64         `yaml:"height"`
	Start        planner.Point   `yaml:"start"`
	Goal         planner.Point   `yaml:"goal"`
	ObstacleSize float64         `yaml:"obstacle_size"`
	Obstacles    [][]float64     `yaml:"obstacles"` // [x1,y1,x2,y2] corners or [x,y] bottom-left
	GeoJSON      string          `yaml:"geojson,omitempty"`
	Variant      planner.Variant `yaml:"variant"`
	Params       planner.Params  `yaml:"params"`
	Smooth       bool            `yaml:"smooth"`

	baseDir string
}

// Default returns the reference scenario: a 100x100 field with four boxes
func Default() *Scenario {
	return &Scenario{
		Width:        100,
		Height:       100,
		Start:        planner.Point{X: 10, Y: 10},
		Goal:         planner.Point{X: 90, Y: 90},
		ObstacleSize: DefaultObstacleSize,
		Obstacles: [][]float64{
			{20, 20, 30, 30},
			{50, 50, 60, 60},
			{70, 20, 80, 30},
			{20, 70, 30, 80},
		},
		Variant: planner.Basic,
		Params:  planner.DefaultParams(),
		Smooth:  true,
	}
}

// Load reads a scenario file; a relative GeoJSON path is resolved against
// the scenario's directory
func Load(filename string) (*Scenario, error) {
	return LoadWithDefaults(filename, planner.DefaultParams())
}

// LoadWithDefaults is Load with params filling in what the file leaves out
func LoadWithDefaults(filename string, params planner.Params) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	s, err := ParseWithDefaults(data, params)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	s.baseDir = filepath.Dir(filename)
	return s, nil
}

// Parse decodes a YAML scenario on top of the defaults
func Parse(data []byte) (*Scenario, error) {
	return ParseWithDefaults(data, planner.DefaultParams())
}

// ParseWithDefaults decodes a YAML scenario on top of params
func ParseWithDefaults(data []byte, params planner.Params) (*Scenario, error) {
	s := &Scenario{
		ObstacleSize: DefaultObstacleSize,
		Variant:      planner.Basic,
		Params:       params,
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}

	return s, nil
}

// Marshal encodes the scenario as YAML
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// ObstacleList expands the obstacle entries into rectangles
func (s *Scenario) ObstacleList() ([]planner.Obstacle, error) {
	obstacles := make([]planner.Obstacle, 0, len(s.Obstacles))
	for i, entry := range s.Obstacles {
		switch len(entry) {
		case 2:
			obstacles = append(obstacles, planner.NewObstacle(
				planner.Point{X: entry[0], Y: entry[1]},
				planner.Point{X: entry[0] + s.ObstacleSize, Y: entry[1] + s.ObstacleSize},
			))
		case 4:
			obstacles = append(obstacles, planner.NewObstacle(
				planner.Point{X: entry[0], Y: entry[1]},
				planner.Point{X: entry[2], Y: entry[3]},
			))
		default:
			return nil, fmt.Errorf("%w: obstacle %d needs 2 or 4 coordinates, got %d",
				planner.ErrInvalidConfiguration, i, len(entry))
		}
	}

	if s.GeoJSON != "" {
		path := s.GeoJSON
		if !filepath.IsAbs(path) && s.baseDir != "" {
			path = filepath.Join(s.baseDir, path)
		}
		extra, err := LoadObstaclesGeoJSON(path)
		if err != nil {
			return nil, err
		}
		obstacles = append(obstacles, extra...)
	}

	return obstacles, nil
}

// Workspace builds the planner workspace described by the scenario
func (s *Scenario) Workspace() (*planner.Workspace, error) {
	obstacles, err := s.ObstacleList()
	if err != nil {
		return nil, err
	}
	return planner.NewWorkspace(s.Width, s.Height, obstacles)
}
