package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"rrt-planner/planner"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// applyEnvParams reads RRT_MAX_ITERATIONS and RRT_TIMEOUT into params
func applyEnvParams(params *planner.Params) error {
	if v := os.Getenv("RRT_MAX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RRT_MAX_ITERATIONS %q: %w", v, err)
		}
		params.MaxIterations = n
	}
	if v := os.Getenv("RRT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RRT_TIMEOUT %q: %w", v, err)
		}
		params.Timeout = d
	}
	return nil
}
