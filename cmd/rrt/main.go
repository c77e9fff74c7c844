// Command rrt plans paths with rapidly-exploring random trees, benchmarks
// the planner variants and serves them over HTTP.
package main

func main() {
	Execute()
}
