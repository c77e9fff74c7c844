package planner

// Steer moves exactly step from `from` in the direction of `toward`. The
// result never snaps onto `toward`, even when it is closer than step. A
// zero-length direction returns `from` unchanged.
func Steer(from, toward Point, step float64) Point {
	dist := from.Distance(toward)
	if dist == 0 {
		return from
	}

	return Point{
		X: from.X + step*(toward.X-from.X)/dist,
		Y: from.Y + step*(toward.Y-from.Y)/dist,
	}
}
