package planner

// removeContainedObstacles drops obstacles that are fully contained within
// another one; they can never change a collision answer
func removeContainedObstacles(obstacles []Obstacle) []Obstacle {
	if len(obstacles) <= 1 {
		return obstacles
	}

	contained := make([]bool, len(obstacles))

	for i := 0; i < len(obstacles); i++ {
		if contained[i] {
			continue
		}

		for j := 0; j < len(obstacles); j++ {
			if i == j || contained[j] {
				continue
			}

			// Identical rectangles: keep the first one only
			if obstacles[j].containsObstacle(obstacles[i]) {
				if obstacles[i] != obstacles[j] || j < i {
					contained[i] = true
					break
				}
			}

			if obstacles[i].containsObstacle(obstacles[j]) {
				contained[j] = true
			}
		}
	}

	result := make([]Obstacle, 0, len(obstacles))
	for i := 0; i < len(obstacles); i++ {
		if !contained[i] {
			result = append(result, obstacles[i])
		}
	}

	return result
}
