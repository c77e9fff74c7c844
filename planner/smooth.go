package planner

// Smooth shortcuts a path: from each kept waypoint it jumps to the farthest
// later waypoint that is directly reachable, so the result is a subsequence
// of path with the same endpoints and never a longer polyline.
//
// Every hop of a planner-produced path is free, so the scan always accepts
// at least i+1. For a caller-supplied path whose hop i->i+1 is blocked the
// next waypoint is kept as is.
func Smooth(path Path, ws *Workspace) Path {
	if len(path) < 2 {
		return path.Clone()
	}

	smoothed := Path{path[0]}
	last := len(path) - 1

	for i := 0; i < last; {
		next := i + 1
		for j := last; j > i+1; j-- {
			if ws.SegmentIsFree(path[i], path[j]) {
				next = j
				break
			}
		}
		smoothed = append(smoothed, path[next])
		i = next
	}

	return smoothed
}
