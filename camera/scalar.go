package camera

import "golang.org/x/exp/constraints"

// approach moves cur toward target by at most maxDelta without
// overshooting.
func approach[T constraints.Float](cur, target, maxDelta T) T {
	switch {
	case cur < target:
		return min(cur+maxDelta, target)
	case cur > target:
		return max(cur-maxDelta, target)
	default:
		return target
	}
}
